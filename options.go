package livestatus

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// boardConfig holds mutable state during Board construction.
type boardConfig struct {
	title           string
	sources         []Source
	pollingInterval time.Duration
	port            int
	logger          *slog.Logger
	clock           clockwork.Clock
	fetchCallbacks  []func(FetchResult)
}

// Option configures a [Board] during construction. Options return an error
// if validation fails.
type Option func(*boardConfig) error

// WithSource adds a single [Source]. Panels appear in the order sources are
// added. At least one source is required.
func WithSource(s Source) Option {
	return func(cfg *boardConfig) error {
		cfg.sources = append(cfg.sources, s)
		return nil
	}
}

// WithSources adds several sources at once, typically the output of
// [NewSourceGrid].
//
//	sources, _ := livestatus.NewSourceGrid("Tool", gridOpts...)
//	board, err := livestatus.New(livestatus.WithSources(sources...))
func WithSources(sources ...Source) Option {
	return func(cfg *boardConfig) error {
		cfg.sources = append(cfg.sources, sources...)
		return nil
	}
}

// WithPollingInterval sets how often every source is fetched. Sources built
// with [WithInterval] keep their own interval. Defaults to 3 seconds.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *boardConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for [Board.Start]. Defaults to 8080.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *boardConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard heading. Defaults to "Live Status".
func WithTitle(title string) Option {
	return func(cfg *boardConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets the [slog.Logger] used for lifecycle events and fetch
// failures. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *boardConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithClock replaces the clock that drives fetch intervals and timestamps.
// Tests pass a [clockwork.FakeClock] to step through ticks.
//
// Returns an error if the clock is nil.
func WithClock(clock clockwork.Clock) Option {
	return func(cfg *boardConfig) error {
		if clock == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.clock = clock
		return nil
	}
}

// WithFetchCallback registers a function called with every [FetchResult],
// successful or not, after the board has applied it.
//
// Callbacks run in registration order on the goroutine that applies results,
// so a slow callback delays the next update. Hand long work to another
// goroutine. A panicking callback is recovered and logged.
//
//	board, err := livestatus.New(
//	    livestatus.WithSource(src),
//	    livestatus.WithFetchCallback(func(r livestatus.FetchResult) {
//	        if r.Error != nil {
//	            alerts.Notify(r.SourceName, r.Error)
//	        }
//	    }),
//	)
//
// Nil callbacks are ignored.
func WithFetchCallback(cb func(FetchResult)) Option {
	return func(cfg *boardConfig) error {
		if cb == nil {
			return nil
		}
		cfg.fetchCallbacks = append(cfg.fetchCallbacks, cb)
		return nil
	}
}
