package livestatus

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/template"
)

// NewSourceGrid creates one [Source] per combination of dimension values.
//
// The URL template uses text/template syntax with the dimension keys as
// variables. Values are query-escaped before substitution and a key the
// template references but no dimension defines is an error.
//
// Each source is named "Base (v1/v2)" with values taken in sorted key order,
// and is labelled with its dimension values. Static labels from
// [WithGridLabels] win on collision.
//
// Example:
//
//	sources, err := livestatus.NewSourceGrid("Tool",
//	    livestatus.WithURLTemplate("https://{{.tool}}.internal/api/status?env={{.env}}"),
//	    livestatus.WithDimensions(map[string][]string{
//	        "tool": {"cost", "iac"},
//	        "env":  {"prod", "dev"},
//	    }),
//	)
//	// 4 sources, "Tool (prod/cost)" ... "Tool (dev/iac)"
func NewSourceGrid(baseName string, opts ...GridOption) ([]Source, error) {
	if strings.TrimSpace(baseName) == "" {
		return nil, errors.New("base name cannot be empty")
	}

	cfg := &gridConfig{
		staticLabels: make(map[string]string),
		headers:      make(map[string]string),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	switch {
	case cfg.urlTemplate == "":
		return nil, errors.New("URL template required")
	case len(cfg.dimensions) == 0:
		return nil, errors.New("at least one dimension required")
	}

	tmpl, err := template.New("url").Option("missingkey=error").Parse(cfg.urlTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid URL template: %w", err)
	}

	shared := cfg.sourceOptions()
	cells := cartesianProduct(cfg.dimensions)
	sources := make([]Source, 0, len(cells))

	for _, cell := range cells {
		rawURL, err := renderURL(tmpl, cell)
		if err != nil {
			return nil, fmt.Errorf("template execution failed: %w", err)
		}

		labels := make(map[string]string, len(cell)+len(cfg.staticLabels))
		for k, v := range cell {
			labels[k] = v
		}
		for k, v := range cfg.staticLabels {
			labels[k] = v
		}

		name := gridSourceName(baseName, cell)
		srcOpts := append([]SourceOption{WithLabels(sortedPairs(labels)...)}, shared...)

		src, err := NewSource(name, rawURL, srcOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create source %q: %w", name, err)
		}
		sources = append(sources, src)
	}

	return sources, nil
}

// sourceOptions returns the options every cell of the grid shares.
func (cfg *gridConfig) sourceOptions() []SourceOption {
	var opts []SourceOption
	if len(cfg.headers) > 0 {
		opts = append(opts, WithHeaders(sortedPairs(cfg.headers)...))
	}
	if cfg.timeout > 0 {
		opts = append(opts, WithTimeout(cfg.timeout))
	}
	if cfg.interval > 0 {
		opts = append(opts, WithInterval(cfg.interval))
	}
	return opts
}

// cartesianProduct returns every combination of dimension values. Keys are
// taken in sorted order with the last key varying fastest; values keep their
// given order. It returns nil if any dimension is empty.
func cartesianProduct(dims map[string][]string) []map[string]string {
	if len(dims) == 0 {
		return nil
	}

	keys := sortedKeys(dims)
	cells := []map[string]string{{}}
	for _, k := range keys {
		values := dims[k]
		if len(values) == 0 {
			return nil
		}

		next := make([]map[string]string, 0, len(cells)*len(values))
		for _, cell := range cells {
			for _, v := range values {
				ext := make(map[string]string, len(cell)+1)
				for ck, cv := range cell {
					ext[ck] = cv
				}
				ext[k] = v
				next = append(next, ext)
			}
		}
		cells = next
	}
	return cells
}

// renderURL executes tmpl with the cell's values query-escaped.
func renderURL(tmpl *template.Template, cell map[string]string) (string, error) {
	escaped := make(map[string]string, len(cell))
	for k, v := range cell {
		escaped[k] = url.QueryEscape(v)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, escaped); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// gridSourceName returns "Base (v1/v2)" with values in sorted key order.
func gridSourceName(baseName string, cell map[string]string) string {
	keys := sortedKeys(cell)
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = cell[k]
	}
	return baseName + " (" + strings.Join(values, "/") + ")"
}

// sortedPairs flattens m into key-value pairs in key order, the form the
// variadic options take.
func sortedPairs(m map[string]string) []string {
	pairs := make([]string, 0, len(m)*2)
	for _, k := range sortedKeys(m) {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
