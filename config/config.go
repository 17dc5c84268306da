// Package config loads livestatus boards from YAML files for the CLI.
//
// Example configuration:
//
//	title: Cost Optimization Monitoring Tool
//	port: 8080
//	poll_interval: 3s
//
//	sources:
//	  - name: Live Status
//	    url: ${STATUS_URL:-http://localhost:7071/api/status}
//	    timeout: 5s
//	    headers:
//	      X-Api-Key: ${API_KEY}
//
//	grids:
//	  - name: Tool
//	    url_template: "https://{{.tool}}.internal/api/status"
//	    dimensions:
//	      tool: [cost, iac]
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort         = 8080
	defaultPollInterval = 3 * time.Second

	// minPollInterval keeps a typo such as "3ms" from hammering a source.
	minPollInterval = 1 * time.Second
	maxInterval     = time.Hour
)

// Config is the root of a configuration file. Use [Load] or [Parse] to
// create one.
type Config struct {
	// Title is the dashboard heading. Empty means "Live Status".
	Title string `yaml:"title"`

	// Port is the HTTP port of the web dashboard. Defaults to 8080.
	Port int `yaml:"port"`

	// PollInterval is the time between fetches of each source, for example
	// "3s" or "1m". Defaults to 3s.
	PollInterval Duration `yaml:"poll_interval"`

	// Sources are individual status endpoints, one panel each.
	Sources []SourceConfig `yaml:"sources"`

	// Grids expand into one source per combination of dimension values.
	Grids []GridConfig `yaml:"grids"`
}

// SourceConfig defines a single status endpoint.
type SourceConfig struct {
	// Name is the panel title.
	Name string `yaml:"name"`

	// URL of the status document. Supports ${VAR} and ${VAR:-default}.
	URL string `yaml:"url"`

	// Timeout is the request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Headers are sent with every request. Values support env expansion.
	Headers map[string]string `yaml:"headers"`

	// Labels are shown under the panel title.
	Labels map[string]string `yaml:"labels"`

	// Interval overrides poll_interval for this source. Between 1s and 1h.
	Interval Duration `yaml:"interval"`
}

// GridConfig defines a family of sources built from a URL template.
//
// With dimensions {tool: [cost, iac], env: [prod, dev]} the grid expands to
// four sources.
type GridConfig struct {
	// Name is the base name of the generated panels.
	Name string `yaml:"name"`

	// URLTemplate is a text/template with the dimension keys as variables.
	// Supports env expansion.
	URLTemplate string `yaml:"url_template"`

	// Dimensions maps each template variable to its values.
	Dimensions map[string][]string `yaml:"dimensions"`

	Timeout  Duration          `yaml:"timeout"`
	Headers  map[string]string `yaml:"headers"`
	Labels   map[string]string `yaml:"labels"`
	Interval Duration          `yaml:"interval"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
// Group 1: variable name
// Group 2: ":-default" when a default is given
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
// An unset variable without a default is an error.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		sub := envVarPattern.FindStringSubmatch(match)
		name := sub[1]
		hasDefault := sub[2] != ""

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return sub[3]
		}
		firstErr = fmt.Errorf("environment variable %q is not set", name)
		return match
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in url, url_template and header
// values. Defaults are applied for port (8080) and poll_interval (3s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(defaultPollInterval)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		src := &c.Sources[i]

		if src.Name == "" {
			return fmt.Errorf("sources[%d]: name is required", i)
		}
		where := fmt.Sprintf("sources[%d] (%s)", i, src.Name)

		if seen[src.Name] {
			return fmt.Errorf("%s: duplicate name", where)
		}
		seen[src.Name] = true

		if src.URL == "" {
			return fmt.Errorf("%s: url is required", where)
		}
		expanded, err := expandEnvVars(src.URL)
		if err != nil {
			return fmt.Errorf("%s: url: %w", where, err)
		}
		src.URL = expanded

		if err := validateURL(src.URL); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if err := expandHeaders(src.Headers); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if err := validateTiming(src.Timeout, src.Interval); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
	}

	for i := range c.Grids {
		g := &c.Grids[i]

		if g.Name == "" {
			return fmt.Errorf("grids[%d]: name is required", i)
		}
		where := fmt.Sprintf("grids[%d] (%s)", i, g.Name)

		if g.URLTemplate == "" {
			return fmt.Errorf("%s: url_template is required", where)
		}
		expanded, err := expandEnvVars(g.URLTemplate)
		if err != nil {
			return fmt.Errorf("%s: url_template: %w", where, err)
		}
		g.URLTemplate = expanded

		if _, err := template.New("").Parse(g.URLTemplate); err != nil {
			return fmt.Errorf("%s: invalid url_template: %w", where, err)
		}

		if len(g.Dimensions) == 0 {
			return fmt.Errorf("%s: at least one dimension is required", where)
		}
		for dim, values := range g.Dimensions {
			if len(values) == 0 {
				return fmt.Errorf("%s: dimension %q has no values", where, dim)
			}
			unique := make(map[string]struct{}, len(values))
			for _, v := range values {
				if _, dup := unique[v]; dup {
					return fmt.Errorf("%s: dimension %q has duplicate value %q", where, dim, v)
				}
				unique[v] = struct{}{}
			}
		}

		if err := expandHeaders(g.Headers); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if err := validateTiming(g.Timeout, g.Interval); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
	}

	if len(c.Sources) == 0 && len(c.Grids) == 0 {
		return errors.New("at least one source or grid must be defined")
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme == "" {
		return errors.New("url must have a scheme (http:// or https://)")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}

func expandHeaders(headers map[string]string) error {
	for k, v := range headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("headers[%s]: %w", k, err)
		}
		headers[k] = expanded
	}
	return nil
}

// validateTiming checks optional timeout and interval values; zero means
// unset.
func validateTiming(timeout, interval Duration) error {
	if timeout != 0 {
		if timeout.Duration() < 0 {
			return fmt.Errorf("timeout cannot be negative, got %s", timeout.Duration())
		}
		if timeout.Duration() < time.Second {
			return fmt.Errorf("timeout must be at least 1s if specified, got %s", timeout.Duration())
		}
	}

	if interval != 0 {
		if interval.Duration() < time.Second {
			return fmt.Errorf("interval must be at least 1s, got %s", interval.Duration())
		}
		if interval.Duration() > maxInterval {
			return fmt.Errorf("interval must not exceed 1h, got %s", interval.Duration())
		}
	}
	return nil
}
