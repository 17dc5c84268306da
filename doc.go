// Package livestatus shows live status documents from HTTP endpoints as
// panels on a dashboard.
//
// A source is a URL that answers GET with a flat JSON object, such as
//
//	{"status":"Active","uptime":"99.9%","requests":42,"cpu_usage":7}
//
// Every field of the latest document becomes one line of the source's
// panel, in document order, with the key upper-cased and underscores turned
// into spaces:
//
//	STATUS     Active
//	UPTIME     99.9%
//	REQUESTS   42
//	CPU USAGE  7
//
// A panel shows "Loading..." until its first successful fetch. A failed
// fetch is logged and leaves the panel as it was.
//
// # Quick Start
//
//	src, _ := livestatus.NewSource("Live Status", "http://localhost:7071")
//	board, _ := livestatus.New(
//	    livestatus.WithSource(src),
//	    livestatus.WithTitle("Cost Optimization Monitoring Tool"),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	board.Start(ctx)             // web dashboard on :8080
//	// or
//	board.Watch(ctx, os.Stdout)  // terminal dashboard
//
// # Polling
//
// Every source is fetched once when the board starts and again on every
// tick of its interval (3 seconds unless set with [WithPollingInterval] or
// [WithInterval]). Ticks never wait for a slow response, so fetches of one
// source may overlap; the panel shows whichever response completed last.
// Cancelling the context stops the tickers and abandons requests still in
// flight.
//
// # Grids
//
// [NewSourceGrid] expands a URL template across dimension values, which
// suits a fleet of identical tools:
//
//	sources, err := livestatus.NewSourceGrid("Tool",
//	    livestatus.WithURLTemplate("https://{{.tool}}.internal/api/status"),
//	    livestatus.WithDimensions(map[string][]string{"tool": {"cost", "iac"}}),
//	)
//
// # Architecture
//
//   - mapping: order-preserving decoding of status documents
//   - internal/poller: HTTP client and per-source tickers
//   - internal/store: panel state with pub/sub for live updates
//   - internal/server: dashboard page, JSON API, SSE and metrics
//   - internal/render: terminal frames
//   - internal/metrics: Prometheus collectors
//   - internal/mockapi: fake status endpoint for local runs
//   - dashboard: embedded web UI assets
package livestatus
