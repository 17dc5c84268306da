package livestatus

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSource(t *testing.T, name, rawURL string, opts ...SourceOption) Source {
	t.Helper()
	src, err := NewSource(name, rawURL, opts...)
	require.NoError(t, err)
	return src
}

func TestNew_Defaults(t *testing.T) {
	board, err := New(WithSource(mustSource(t, "Live Status", "http://localhost:7071")))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, board.PollingInterval())
	assert.Equal(t, 8080, board.Port())
	assert.Equal(t, "Live Status", board.Title())
	assert.Equal(t, slog.Default(), board.logger)
	assert.NotNil(t, board.clock)
}

func TestNew_Options(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewFakeClock()

	board, err := New(
		WithSource(mustSource(t, "A", "http://a.local")),
		WithSources(mustSource(t, "B", "http://b.local"), mustSource(t, "C", "http://c.local")),
		WithPollingInterval(10*time.Second),
		WithPort(9090),
		WithTitle("Cost Optimization Monitoring Tool"),
		WithLogger(logger),
		WithClock(clock),
	)
	require.NoError(t, err)

	names := []string{}
	for _, s := range board.Sources() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	assert.Equal(t, 10*time.Second, board.PollingInterval())
	assert.Equal(t, 9090, board.Port())
	assert.Equal(t, "Cost Optimization Monitoring Tool", board.Title())
	assert.Same(t, logger, board.logger)
	assert.Equal(t, clock, board.clock)
}

func TestNew_Errors(t *testing.T) {
	a := mustSource(t, "A", "http://a.local")

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{"no sources", nil, "at least one source"},
		{"duplicate names", []Option{WithSource(a), WithSource(mustSource(t, "A", "http://other.local"))}, `duplicate source name: "A"`},
		{"duplicate via WithSources", []Option{WithSources(a, a)}, "duplicate source name"},
		{"zero interval", []Option{WithSource(a), WithPollingInterval(0)}, "polling interval must be positive"},
		{"negative interval", []Option{WithSource(a), WithPollingInterval(-time.Second)}, "polling interval must be positive"},
		{"port zero", []Option{WithSource(a), WithPort(0)}, "port must be between"},
		{"port too high", []Option{WithSource(a), WithPort(65536)}, "port must be between"},
		{"nil logger", []Option{WithSource(a), WithLogger(nil)}, "logger cannot be nil"},
		{"nil clock", []Option{WithSource(a), WithClock(nil)}, "clock cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWithPort_EdgeCases(t *testing.T) {
	for _, port := range []int{1, 80, 65535} {
		board, err := New(WithSource(mustSource(t, "A", "http://a.local")), WithPort(port))
		require.NoError(t, err)
		assert.Equal(t, port, board.Port())
	}
}

func TestWithFetchCallback_NilIgnored(t *testing.T) {
	board, err := New(WithSource(mustSource(t, "A", "http://a.local")), WithFetchCallback(nil))
	require.NoError(t, err)
	assert.Empty(t, board.fetchCallbacks)
}

func TestBoard_SourcesIsCopy(t *testing.T) {
	board, err := New(WithSource(mustSource(t, "A", "http://a.local")))
	require.NoError(t, err)

	sources := board.Sources()
	sources[0] = mustSource(t, "Z", "http://z.local")

	assert.Equal(t, "A", board.Sources()[0].Name())
}

func TestToSourceInfos_CopiesMaps(t *testing.T) {
	src := mustSource(t, "A", "http://a.local",
		WithLabels("env", "prod"),
		WithHeaders("X-Api-Key", "secret"),
		WithTimeout(2*time.Second),
		WithInterval(5*time.Second),
	)
	board, err := New(WithSource(src))
	require.NoError(t, err)

	infos := board.toSourceInfos()
	require.Len(t, infos, 1)
	assert.Equal(t, "http://a.local/api/status", infos[0].URL)
	assert.Equal(t, 2*time.Second, infos[0].Timeout)
	assert.Equal(t, 5*time.Second, infos[0].Interval)

	infos[0].Labels["env"] = "changed"
	infos[0].Headers["X-Api-Key"] = "changed"
	assert.Equal(t, "prod", board.sources[0].labels["env"])
	assert.Equal(t, "secret", board.sources[0].headers["X-Api-Key"])
}
