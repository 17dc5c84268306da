package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jpalmerr/livestatus/internal/metrics"
	"github.com/jpalmerr/livestatus/mapping"
)

const defaultTimeout = 10 * time.Second

// Result holds the outcome of fetching a single source once.
type Result struct {
	// SourceName is the display name of the polled source.
	SourceName string

	// URL is the target URL that was fetched.
	URL string

	// Labels contains the key-value metadata associated with the source.
	Labels map[string]string

	// Mapping is the decoded status document. Empty when Error is set.
	Mapping mapping.Mapping

	// Latency is the time taken to complete the HTTP request.
	Latency time.Duration

	// CheckedAt is the time the fetch completed, read from the scheduler clock.
	CheckedAt time.Time

	// RequestID is the X-Request-ID sent with the request.
	RequestID string

	// StatusCode is the HTTP status code returned by the endpoint.
	StatusCode int

	// Error is set for network errors, non-2xx responses and bodies that
	// are not a JSON object.
	Error error
}

// SourceInfo contains the configuration needed to poll a single source.
//
// This is the poller-internal representation of a source, decoupled from
// the main livestatus.Source type to avoid circular dependencies.
type SourceInfo struct {
	// Name is the display name of the source.
	Name string

	// URL is the status endpoint to fetch.
	URL string

	// Labels contains key-value metadata for the source.
	Labels map[string]string

	// Headers contains custom HTTP headers to send with requests.
	Headers map[string]string

	// Timeout is the per-request timeout. Zero means 10 seconds.
	Timeout time.Duration

	// Interval overrides the scheduler interval for this source when > 0.
	Interval time.Duration
}

// Scheduler polls a set of sources on their intervals.
//
// On Start every source is fetched immediately, then once per tick of its
// own ticker. Each fetch runs in its own goroutine and is never skipped or
// merged with a fetch that is still in flight. Results are emitted to a
// channel that the caller must drain.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	sources  []SourceInfo
	interval time.Duration
	clock    clockwork.Clock
	client   *Client
	metrics  *metrics.Metrics
	results  chan Result
	logger   *slog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once
}

// NewScheduler creates a new polling [Scheduler].
//
// Parameters:
//   - sources: sources to poll
//   - interval: time between fetches for sources without their own interval
//   - clock: time source for tickers and timestamps (nil means the real clock)
//   - m: collectors to record fetches on (may be nil)
//   - logger: logger for scheduler events
func NewScheduler(sources []SourceInfo, interval time.Duration, clock clockwork.Clock, m *metrics.Metrics, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		sources:  sources,
		interval: interval,
		clock:    clock,
		client:   NewClient(),
		metrics:  m,
		results:  make(chan Result, len(sources)*4),
		logger:   logger,
	}
}

// Results returns a receive-only channel that emits [Result] values.
//
// The channel is closed when the scheduler stops. Consumers should read from
// it until it is closed.
func (s *Scheduler) Results() <-chan Result {
	return s.results
}

// Start begins polling in background goroutines and returns immediately.
//
// If ctx is nil, context.Background() is used as the parent context.
// Start is idempotent; if Stop was called before Start, Start is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	pollCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(len(s.sources))
	s.mu.Unlock()

	for _, src := range s.sources {
		go s.loop(pollCtx, src)
	}
}

// Stop halts the scheduler and waits for all goroutines to complete.
//
// Pending tickers are stopped and in-flight requests are cancelled; their
// results are discarded. The results channel is closed before Stop returns.
// Stop is idempotent and safe to call before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	if s.client != nil {
		s.client.Close()
	}

	// ensure channel is closed even if Start() was never called
	s.closeOnce.Do(func() { close(s.results) })
}

// loop owns the ticker of one source.
func (s *Scheduler) loop(ctx context.Context, src SourceInfo) {
	defer s.wg.Done()

	interval := src.Interval
	if interval <= 0 {
		interval = s.interval
	}

	s.dispatch(ctx, src)

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.dispatch(ctx, src)
		}
	}
}

// dispatch fetches src in a new goroutine. The caller's wait group slot
// keeps the counter above zero while the new slot is added.
func (s *Scheduler) dispatch(ctx context.Context, src SourceInfo) {
	if ctx.Err() != nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		result, ok := s.fetch(ctx, src)
		if !ok {
			return
		}

		select {
		case s.results <- result:
		case <-ctx.Done():
		}
	}()
}

// fetch performs one request and decodes the body. ok is false when the
// scheduler was stopped while the request was in flight.
func (s *Scheduler) fetch(ctx context.Context, src SourceInfo) (result Result, ok bool) {
	timeout := src.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	s.metrics.FetchStarted(src.Name)
	resp := s.client.Fetch(ctx, src.URL, src.Headers, timeout)

	if ctx.Err() != nil {
		s.metrics.FetchAbandoned(src.Name)
		s.logger.Debug("fetch abandoned on stop", "source", src.Name, "request_id", resp.RequestID)
		return Result{}, false
	}

	result = Result{
		SourceName: src.Name,
		URL:        src.URL,
		Labels:     src.Labels,
		Latency:    resp.Latency,
		CheckedAt:  s.clock.Now(),
		RequestID:  resp.RequestID,
		StatusCode: resp.StatusCode,
		Error:      resp.Error,
	}

	if result.Error == nil {
		m, err := mapping.Parse(resp.Body)
		if err != nil {
			result.Error = fmt.Errorf("failed to decode status document: %w", err)
		} else {
			result.Mapping = m
		}
	}

	s.metrics.FetchFinished(src.Name, resp.Latency, result.Mapping.Len(), result.Error)
	return result, true
}
