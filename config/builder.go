package config

import (
	"fmt"
	"sort"

	"github.com/jpalmerr/livestatus"
)

// BuildSources converts a parsed configuration into SDK sources, direct
// sources first and then each grid's expansion, in file order.
func BuildSources(cfg *Config) ([]livestatus.Source, error) {
	var sources []livestatus.Source

	for _, sc := range cfg.Sources {
		src, err := buildSource(sc)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", sc.Name, err)
		}
		sources = append(sources, src)
	}

	for _, gc := range cfg.Grids {
		expanded, err := buildGrid(gc)
		if err != nil {
			return nil, fmt.Errorf("grid %q: %w", gc.Name, err)
		}
		sources = append(sources, expanded...)
	}

	return sources, nil
}

// BoardOptions returns the board options described by cfg, including its
// sources.
func BoardOptions(cfg *Config) ([]livestatus.Option, error) {
	sources, err := BuildSources(cfg)
	if err != nil {
		return nil, err
	}

	opts := []livestatus.Option{
		livestatus.WithSources(sources...),
		livestatus.WithPort(cfg.Port),
		livestatus.WithPollingInterval(cfg.PollInterval.Duration()),
	}
	if cfg.Title != "" {
		opts = append(opts, livestatus.WithTitle(cfg.Title))
	}
	return opts, nil
}

func buildSource(sc SourceConfig) (livestatus.Source, error) {
	var opts []livestatus.SourceOption

	if sc.Timeout != 0 {
		opts = append(opts, livestatus.WithTimeout(sc.Timeout.Duration()))
	}
	if len(sc.Headers) > 0 {
		opts = append(opts, livestatus.WithHeaders(keyValuePairs(sc.Headers)...))
	}
	if len(sc.Labels) > 0 {
		opts = append(opts, livestatus.WithLabels(keyValuePairs(sc.Labels)...))
	}
	if sc.Interval != 0 {
		opts = append(opts, livestatus.WithInterval(sc.Interval.Duration()))
	}

	return livestatus.NewSource(sc.Name, sc.URL, opts...)
}

func buildGrid(gc GridConfig) ([]livestatus.Source, error) {
	opts := []livestatus.GridOption{
		livestatus.WithURLTemplate(gc.URLTemplate),
		livestatus.WithDimensions(gc.Dimensions),
		livestatus.WithGridTimeout(gc.Timeout.Duration()),
		livestatus.WithGridInterval(gc.Interval.Duration()),
	}
	if len(gc.Headers) > 0 {
		opts = append(opts, livestatus.WithGridHeaders(keyValuePairs(gc.Headers)...))
	}
	if len(gc.Labels) > 0 {
		opts = append(opts, livestatus.WithGridLabels(keyValuePairs(gc.Labels)...))
	}

	return livestatus.NewSourceGrid(gc.Name, opts...)
}

// keyValuePairs flattens m into sorted key-value pairs.
func keyValuePairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
