// Command example runs a mock status endpoint and a dashboard for it in one
// process.
//
//	go run ./example            # web dashboard on http://localhost:8080
//	go run ./example -watch     # terminal dashboard
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/livestatus"
	"github.com/jpalmerr/livestatus/internal/mockapi"
)

func main() {
	watch := flag.Bool("watch", false, "render in the terminal instead of serving the web dashboard")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// mock endpoint on an ephemeral port, failing one request in ten
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		logger.Error("failed to listen", "error", err)
		os.Exit(1)
	}
	mock, err := mockapi.New(ln.Addr().String(),
		mockapi.WithProject("Cost Optimization"),
		mockapi.WithFailRate(0.1),
		mockapi.WithLogger(logger.With("component", "mockapi")),
	)
	if err != nil {
		logger.Error("failed to create mock api", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := mock.Serve(ctx, ln); err != nil {
			logger.Error("mock api stopped", "error", err)
		}
	}()

	baseURL := "http://" + ln.Addr().String()

	live, err := livestatus.NewSource("Live Status", baseURL,
		livestatus.WithLabels("project", "cost-optimization"),
	)
	if err != nil {
		logger.Error("failed to create source", "error", err)
		os.Exit(1)
	}

	// grid: one panel per environment, all served by the same mock
	envs, err := livestatus.NewSourceGrid("Env",
		livestatus.WithURLTemplate(baseURL+"/api/status?env={{.env}}"),
		livestatus.WithDimensions(map[string][]string{
			"env": {"prod", "staging"},
		}),
		livestatus.WithGridInterval(10*time.Second),
	)
	if err != nil {
		logger.Error("failed to create source grid", "error", err)
		os.Exit(1)
	}

	board, err := livestatus.New(
		livestatus.WithSource(live),
		livestatus.WithSources(envs...),
		livestatus.WithTitle("Cost Optimization Monitoring Tool"),
		livestatus.WithPollingInterval(3*time.Second),
		livestatus.WithPort(8080),
		livestatus.WithLogger(logger),
		livestatus.WithFetchCallback(func(r livestatus.FetchResult) {
			if r.Error != nil {
				return
			}
			logger.Debug("fetched", "source", r.SourceName, "fields", len(r.Entries()), "latency", r.Latency)
		}),
	)
	if err != nil {
		logger.Error("failed to create board", "error", err)
		os.Exit(1)
	}

	if *watch {
		err = board.Watch(ctx, os.Stdout)
	} else {
		logger.Info("open the dashboard", "url", "http://localhost:8080")
		err = board.Start(ctx)
	}
	if err != nil {
		logger.Error("board stopped", "error", err)
		os.Exit(1)
	}
}
