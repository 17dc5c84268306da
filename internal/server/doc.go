// Package server provides the HTTP server for the livestatus web dashboard.
//
// Routes:
//
//   - GET /: the embedded dashboard page
//   - GET /api/panels: JSON snapshot of every panel in display order
//   - GET /api/sse: Server-Sent Events, one event per panel update
//   - GET /metrics: Prometheus exposition for the board's collectors
//
// The server shuts down gracefully when its context is cancelled, with a
// 5-second timeout for in-flight requests. It is started by
// [livestatus.Board.Start]; library users do not use it directly.
package server
