package livestatus

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	defaultSourceTimeout = 10 * time.Second

	// DefaultStatusPath is used when a source URL has no path.
	DefaultStatusPath = "/api/status"
)

// Source is a status endpoint shown as one panel on the board.
//
// Source is immutable after creation via [NewSource]. Getters return copies
// of maps so a Source cannot be changed once built.
type Source struct {
	name     string
	url      string
	labels   map[string]string
	headers  map[string]string
	timeout  time.Duration
	interval time.Duration
}

// Name returns the panel title.
func (s Source) Name() string {
	return s.name
}

// URL returns the status document URL, including the default path when the
// configured URL had none.
func (s Source) URL() string {
	return s.url
}

// Labels returns a copy of the source's labels.
func (s Source) Labels() map[string]string {
	return copyMap(s.labels)
}

// Headers returns a copy of the HTTP headers sent with every fetch.
func (s Source) Headers() map[string]string {
	return copyMap(s.headers)
}

// Timeout returns the per-request timeout. Defaults to 10 seconds.
func (s Source) Timeout() time.Duration {
	return s.timeout
}

// Interval returns the source's own fetch interval, or 0 when the board
// interval applies.
func (s Source) Interval() time.Duration {
	return s.interval
}

// NewSource creates a [Source] with the given panel name, URL and options.
//
// rawURL must be an absolute http or https URL. A URL without a path, such
// as "http://localhost:7071", is completed with [DefaultStatusPath].
//
// Example:
//
//	src, err := livestatus.NewSource("Cost", "https://cost.example.com/api/status",
//	    livestatus.WithLabels("tool", "cost"),
//	    livestatus.WithTimeout(5 * time.Second),
//	)
func NewSource(name, rawURL string, opts ...SourceOption) (Source, error) {
	if name == "" {
		return Source{}, errors.New("source name cannot be empty")
	}

	resolved, err := resolveURL(rawURL)
	if err != nil {
		return Source{}, err
	}

	cfg := &sourceConfig{
		labels:  make(map[string]string),
		headers: make(map[string]string),
		timeout: defaultSourceTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Source{}, err
		}
	}

	return Source{
		name:     name,
		url:      resolved,
		labels:   cfg.labels,
		headers:  cfg.headers,
		timeout:  cfg.timeout,
		interval: cfg.interval,
	}, nil
}

func resolveURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.New("URL must have an http:// or https:// scheme")
	}
	if u.Host == "" {
		return "", errors.New("URL must have a host")
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = DefaultStatusPath
	}
	return u.String(), nil
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
