package livestatus

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// gridConfig collects grid options before expansion.
type gridConfig struct {
	urlTemplate  string
	dimensions   map[string][]string
	staticLabels map[string]string
	headers      map[string]string
	timeout      time.Duration
	interval     time.Duration
}

// GridOption configures [NewSourceGrid].
type GridOption func(*gridConfig) error

// WithURLTemplate sets the URL template, with dimension keys as variables:
//
//	WithURLTemplate("https://{{.tool}}.internal/api/status")
//
// Returns an error if the template string is empty.
func WithURLTemplate(tmpl string) GridOption {
	return func(cfg *gridConfig) error {
		if tmpl == "" {
			return errors.New("URL template required")
		}
		cfg.urlTemplate = tmpl
		return nil
	}
}

// WithDimensions sets the values to expand. Every key becomes a template
// variable and every combination of values becomes a source.
//
// Returns an error if the map is empty, a dimension has no values, or a
// value is empty.
func WithDimensions(dims map[string][]string) GridOption {
	return func(cfg *gridConfig) error {
		if len(dims) == 0 {
			return errors.New("at least one dimension required")
		}

		cp := make(map[string][]string, len(dims))
		for k, vals := range dims {
			if len(vals) == 0 {
				return fmt.Errorf("dimension %q has no values", k)
			}
			if i := slices.Index(vals, ""); i >= 0 {
				return fmt.Errorf("dimension %q has an empty value at index %d", k, i)
			}
			cp[k] = slices.Clone(vals)
		}
		cfg.dimensions = cp
		return nil
	}
}

// WithGridLabels adds static labels to every generated source. They take
// precedence over dimension labels with the same key.
func WithGridLabels(keyValues ...string) GridOption {
	return func(cfg *gridConfig) error {
		return setPairs(cfg.staticLabels, "WithGridLabels", keyValues)
	}
}

// WithGridHeaders adds HTTP headers to every generated source.
func WithGridHeaders(keyValues ...string) GridOption {
	return func(cfg *gridConfig) error {
		return setPairs(cfg.headers, "WithGridHeaders", keyValues)
	}
}

// WithGridTimeout sets the request timeout of every generated source.
// Zero keeps the source default.
func WithGridTimeout(d time.Duration) GridOption {
	return func(cfg *gridConfig) error {
		if d < 0 {
			return errors.New("timeout cannot be negative")
		}
		cfg.timeout = d
		return nil
	}
}

// WithGridInterval sets the fetch interval of every generated source.
// Zero keeps the board interval.
func WithGridInterval(d time.Duration) GridOption {
	return func(cfg *gridConfig) error {
		if d < 0 {
			return errors.New("interval cannot be negative")
		}
		cfg.interval = d
		return nil
	}
}
