package livestatus

import (
	"errors"
	"fmt"
	"time"
)

// sourceConfig holds mutable state during source construction.
type sourceConfig struct {
	labels   map[string]string
	headers  map[string]string
	timeout  time.Duration
	interval time.Duration
}

// SourceOption configures a [Source] during construction. Options return an
// error if validation fails.
type SourceOption func(*sourceConfig) error

// WithLabels adds key-value metadata shown under the panel title.
//
// Returns an error if an odd number of arguments is provided.
func WithLabels(keyValues ...string) SourceOption {
	return func(cfg *sourceConfig) error {
		return setPairs(cfg.labels, "WithLabels", keyValues)
	}
}

// WithHeaders adds HTTP headers sent with every fetch of the source, for
// example an API key.
//
//	src, err := livestatus.NewSource("Cost", url,
//	    livestatus.WithHeaders("X-Api-Key", key),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) SourceOption {
	return func(cfg *sourceConfig) error {
		return setPairs(cfg.headers, "WithHeaders", keyValues)
	}
}

// WithTimeout sets the request timeout for this source. A fetch that does
// not complete in time fails and the panel keeps its previous contents.
// Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) SourceOption {
	return func(cfg *sourceConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithInterval fetches this source on its own interval instead of the board
// interval set by [WithPollingInterval].
//
// The interval is measured between fetch starts. A slow response never
// delays the next fetch.
//
// Returns an error if the duration is zero or negative.
func WithInterval(d time.Duration) SourceOption {
	return func(cfg *sourceConfig) error {
		if d <= 0 {
			return errors.New("interval must be positive")
		}
		cfg.interval = d
		return nil
	}
}

// setPairs stores alternating keys and values in dst.
func setPairs(dst map[string]string, option string, keyValues []string) error {
	if len(keyValues)%2 != 0 {
		return fmt.Errorf("%s requires an even number of arguments (key-value pairs), got %d", option, len(keyValues))
	}
	for i := 0; i < len(keyValues); i += 2 {
		dst[keyValues[i]] = keyValues[i+1]
	}
	return nil
}
