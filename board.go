package livestatus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-isatty"

	"github.com/jpalmerr/livestatus/dashboard"
	"github.com/jpalmerr/livestatus/internal/metrics"
	"github.com/jpalmerr/livestatus/internal/poller"
	"github.com/jpalmerr/livestatus/internal/render"
	"github.com/jpalmerr/livestatus/internal/server"
	"github.com/jpalmerr/livestatus/internal/store"
)

const (
	defaultPollingInterval = 3 * time.Second
	defaultPort            = 8080
	defaultTitle           = "Live Status"
)

// Board polls a set of status sources and shows each document as a panel.
//
// A Board is created with [New] and run either as a web dashboard with
// [Board.Start] or as a terminal view with [Board.Watch]. Both block until
// their context is cancelled:
//
//	src, _ := livestatus.NewSource("Live Status", "http://localhost:7071/api/status")
//	board, err := livestatus.New(livestatus.WithSource(src))
//	if err != nil {
//	    slog.Error("failed to create board", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	board.Start(ctx)
type Board struct {
	title           string
	sources         []Source
	pollingInterval time.Duration
	port            int
	logger          *slog.Logger
	clock           clockwork.Clock
	fetchCallbacks  []func(FetchResult)
}

// New creates a [Board] with the given options.
//
// At least one source must be configured via [WithSource] or [WithSources],
// and source names must be unique. Defaults:
//   - Polling interval: 3 seconds
//   - Port: 8080
//   - Title: "Live Status"
//
// Returns an error if no sources are configured or if any option is invalid.
func New(opts ...Option) (*Board, error) {
	cfg := &boardConfig{
		title:           defaultTitle,
		pollingInterval: defaultPollingInterval,
		port:            defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.sources) == 0 {
		return nil, errors.New("at least one source is required")
	}

	// panels are keyed by name
	seen := make(map[string]bool, len(cfg.sources))
	for _, src := range cfg.sources {
		if seen[src.name] {
			return nil, fmt.Errorf("duplicate source name: %q", src.name)
		}
		seen[src.name] = true
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Board{
		title:           cfg.title,
		sources:         cfg.sources,
		pollingInterval: cfg.pollingInterval,
		port:            cfg.port,
		logger:          logger,
		clock:           clock,
		fetchCallbacks:  cfg.fetchCallbacks,
	}, nil
}

// Start fetches every source and serves the web dashboard.
//
// Start blocks until ctx is cancelled. Every source is fetched immediately
// and then on each tick of its interval. The dashboard, its JSON API and
// Prometheus metrics are served on the configured port.
//
// Returns nil on graceful shutdown, or an error if the port cannot be bound.
// Fetch failures are logged and never returned.
func (b *Board) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	b.logger.Info("livestatus starting", "source_count", len(b.sources), "interval", b.pollingInterval.String())

	m := metrics.New()
	st := b.newStore()

	srv := server.NewServer(st, b.port, dashboard.Assets, b.title, m.Handler(), b.logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	b.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", b.port))

	stop := b.poll(ctx, st, m)
	<-ctx.Done()
	stop()

	b.logger.Info("livestatus stopped")
	return nil
}

// Watch fetches every source and renders the panels to w.
//
// A frame is written on start and after every panel update. When w is a
// terminal the frame is coloured and replaces the previous one. Watch blocks
// until ctx is cancelled and returns nil, or returns the first write error.
func (b *Board) Watch(ctx context.Context, w io.Writer) error {
	if ctx.Err() != nil {
		return nil
	}

	r := render.Renderer{}
	if isTerminal(w) {
		r.Color = true
		r.Clear = true
	}

	st := b.newStore()
	updates := st.Subscribe()
	defer st.Unsubscribe(updates)

	if err := r.Render(w, b.title, st.GetAll()); err != nil {
		return err
	}

	stop := b.poll(ctx, st, metrics.New())
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
			if err := r.Render(w, b.title, st.GetAll()); err != nil {
				return err
			}
		}
	}
}

// newStore returns a store with a loading panel for every source, in
// configuration order.
func (b *Board) newStore() *store.MemoryStore {
	st := store.NewMemoryStore()
	for _, src := range b.sources {
		st.Register(store.Panel{
			Name:   src.name,
			URL:    src.url,
			Labels: copyMap(src.labels),
		})
	}
	return st
}

// poll starts the scheduler and the goroutine that applies its results to
// st. The returned function stops both and waits for them.
func (b *Board) poll(ctx context.Context, st store.Store, m *metrics.Metrics) (stop func()) {
	scheduler := poller.NewScheduler(b.toSourceInfos(), b.pollingInterval, b.clock, m, b.logger)
	scheduler.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range scheduler.Results() {
			// results queued before cancellation are dropped
			if ctx.Err() != nil {
				continue
			}
			b.apply(st, result)
		}
	}()

	return func() {
		scheduler.Stop() // closes results channel
		wg.Wait()
	}
}

// apply updates the panel of a successful fetch, logs a failed one, then
// runs the fetch callbacks.
func (b *Board) apply(st store.Store, result poller.Result) {
	if result.Error != nil {
		b.logger.Error("fetch failed",
			"source", result.SourceName,
			"url", result.URL,
			"request_id", result.RequestID,
			"status_code", result.StatusCode,
			"error", result.Error.Error(),
		)
	} else {
		st.Update(store.Panel{
			Name:      result.SourceName,
			URL:       result.URL,
			Labels:    result.Labels,
			Loaded:    true,
			Entries:   result.Mapping.Entries(),
			UpdatedAt: result.CheckedAt,
		})
		b.logger.Debug("fetch completed",
			"source", result.SourceName,
			"fields", result.Mapping.Len(),
			"latency_ms", result.Latency.Milliseconds(),
		)
	}

	if len(b.fetchCallbacks) == 0 {
		return
	}
	public := toFetchResult(result)
	for _, cb := range b.fetchCallbacks {
		invokeCallbackSafe(cb, public, b.logger)
	}
}

// toSourceInfos converts sources to the poller representation.
func (b *Board) toSourceInfos() []poller.SourceInfo {
	infos := make([]poller.SourceInfo, len(b.sources))
	for i, src := range b.sources {
		infos[i] = poller.SourceInfo{
			Name:     src.name,
			URL:      src.url,
			Labels:   copyMap(src.labels),
			Headers:  copyMap(src.headers),
			Timeout:  src.timeout,
			Interval: src.interval,
		}
	}
	return infos
}

// Sources returns a copy of the configured sources in panel order.
func (b *Board) Sources() []Source {
	cp := make([]Source, len(b.sources))
	copy(cp, b.sources)
	return cp
}

// Title returns the dashboard heading.
func (b *Board) Title() string {
	return b.title
}

// Port returns the HTTP port used by [Board.Start].
func (b *Board) Port() int {
	return b.port
}

// PollingInterval returns the interval for sources without their own.
func (b *Board) PollingInterval() time.Duration {
	return b.pollingInterval
}

func toFetchResult(r poller.Result) FetchResult {
	return FetchResult{
		SourceName: r.SourceName,
		URL:        r.URL,
		Labels:     copyMap(r.Labels),
		Mapping:    r.Mapping,
		Latency:    r.Latency,
		CheckedAt:  r.CheckedAt,
		RequestID:  r.RequestID,
		StatusCode: r.StatusCode,
		Error:      r.Error,
	}
}

// invokeCallbackSafe calls cb with panic recovery. The panic is logged with
// a correlation ID and the stack.
func invokeCallbackSafe(cb func(FetchResult), result FetchResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("fetch callback panicked",
				"panic", r,
				"source", result.SourceName,
				"correlation_id", uuid.NewString(),
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(result)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
