// Package poller fetches status documents on a fixed interval.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with per-request timeouts and size limits
//   - [Scheduler]: runs one interval timer per source and dispatches a fetch
//     on every tick
//   - [Result]: outcome of a single fetch, with the decoded mapping
//   - [SourceInfo]: configuration for a source to poll
//
// Fetches are fire-and-forget: a tick never waits for the previous fetch of
// the same source, so slow endpoints can have several requests in flight.
// Consumers see results in completion order.
//
// Users of the livestatus library should not need to interact with this
// package directly. Configuration is done through the main livestatus package.
package poller
