// Package mockapi serves a fake status endpoint for local development.
//
// The endpoint answers GET /api/status with a small JSON object whose
// counters change on every request, which is enough to watch a board update
// without deploying a real service.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"lukechampine.com/frand"
)

// StatusPath is the route served by the mock API.
const StatusPath = "/api/status"

const shutdownTimeout = 5 * time.Second

// Status is the document returned by the mock endpoint. Field order is the
// order the keys appear on the wire.
type Status struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Requests int    `json:"requests"`
	CPUUsage int    `json:"cpu_usage"`
}

// Server is a mock status API.
type Server struct {
	addr     string
	project  string
	failRate float64
	logger   *slog.Logger
}

// Option configures a [Server].
type Option func(*Server) error

// WithProject sets the project name written to the request log.
func WithProject(name string) Option {
	return func(s *Server) error {
		s.project = name
		return nil
	}
}

// WithFailRate makes the given fraction of requests answer 500.
// rate must be within [0, 1].
func WithFailRate(rate float64) Option {
	return func(s *Server) error {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("fail rate must be between 0 and 1, got %v", rate)
		}
		s.failRate = rate
		return nil
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// New creates a mock API that will listen on addr.
func New(addr string, opts ...Option) (*Server, error) {
	s := &Server{
		addr:    addr,
		project: "Mock API",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handler returns the HTTP handler for the mock routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+StatusPath, s.handleStatus)
	return mux
}

// ListenAndServe binds addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("mock api listening", "addr", ln.Addr().String(), "project", s.project)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mock api server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mock api shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("serving mock status", "project", s.project, "remote", r.RemoteAddr)

	if s.failRate > 0 && frand.Float64() < s.failRate {
		http.Error(w, "simulated failure", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newStatus()); err != nil {
		s.logger.Error("failed to write mock status", "error", err)
	}
}

func newStatus() Status {
	return Status{
		Status:   "Active",
		Uptime:   "99.9%",
		Requests: 10 + frand.Intn(91),
		CPUUsage: frand.Intn(101),
	}
}
