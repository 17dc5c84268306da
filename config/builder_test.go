package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/livestatus"
)

func TestBuildSources_SingleSource(t *testing.T) {
	cfg := &Config{
		Sources: []SourceConfig{
			{Name: "Live Status", URL: "http://localhost:7071/api/status"},
		},
	}

	sources, err := BuildSources(cfg)
	if err != nil {
		t.Fatalf("BuildSources() error = %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("len(sources) = %d, want 1", len(sources))
	}

	src := sources[0]
	if src.Name() != "Live Status" {
		t.Errorf("Name() = %q, want %q", src.Name(), "Live Status")
	}
	if src.URL() != "http://localhost:7071/api/status" {
		t.Errorf("URL() = %q", src.URL())
	}
}

func TestBuildSources_DefaultStatusPath(t *testing.T) {
	cfg := &Config{
		Sources: []SourceConfig{
			{Name: "Bare", URL: "http://localhost:7071"},
		},
	}

	sources, err := BuildSources(cfg)
	if err != nil {
		t.Fatalf("BuildSources() error = %v", err)
	}
	if sources[0].URL() != "http://localhost:7071/api/status" {
		t.Errorf("URL() = %q, want default status path appended", sources[0].URL())
	}
}

func TestBuildSources_SourceWithAllOptions(t *testing.T) {
	cfg := &Config{
		Sources: []SourceConfig{
			{
				Name:     "Full Test",
				URL:      "https://api.example.com/api/status",
				Timeout:  Duration(5 * time.Second),
				Interval: Duration(time.Minute),
				Headers: map[string]string{
					"Authorization": "Bearer token",
					"X-Custom":      "value",
				},
				Labels: map[string]string{
					"env":  "prod",
					"team": "platform",
				},
			},
		},
	}

	sources, err := BuildSources(cfg)
	if err != nil {
		t.Fatalf("BuildSources() error = %v", err)
	}

	src := sources[0]
	if src.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v, want 5s", src.Timeout())
	}
	if src.Interval() != time.Minute {
		t.Errorf("Interval() = %v, want 1m", src.Interval())
	}
	if !reflect.DeepEqual(src.Headers(), cfg.Sources[0].Headers) {
		t.Errorf("Headers() = %v", src.Headers())
	}
	if !reflect.DeepEqual(src.Labels(), cfg.Sources[0].Labels) {
		t.Errorf("Labels() = %v", src.Labels())
	}
}

func TestBuildSources_Grid(t *testing.T) {
	cfg := &Config{
		Grids: []GridConfig{
			{
				Name:        "Platform",
				URLTemplate: "https://{{.env}}.example.com/{{.svc}}/api/status",
				Dimensions: map[string][]string{
					"env": {"prod", "staging"},
					"svc": {"cost", "iac"},
				},
				Labels: map[string]string{"tier": "critical"},
			},
		},
	}

	sources, err := BuildSources(cfg)
	if err != nil {
		t.Fatalf("BuildSources() error = %v", err)
	}

	// 2 envs * 2 svcs = 4 sources
	if len(sources) != 4 {
		t.Fatalf("len(sources) = %d, want 4", len(sources))
	}

	if sources[0].Name() != "Platform (prod/cost)" {
		t.Errorf("sources[0].Name() = %q, want %q", sources[0].Name(), "Platform (prod/cost)")
	}
	if sources[0].URL() != "https://prod.example.com/cost/api/status" {
		t.Errorf("sources[0].URL() = %q", sources[0].URL())
	}

	for _, src := range sources {
		labels := src.Labels()
		if labels["env"] == "" || labels["svc"] == "" {
			t.Errorf("source %q missing dimension labels: %v", src.Name(), labels)
		}
		if labels["tier"] != "critical" {
			t.Errorf("source %q missing grid label: %v", src.Name(), labels)
		}
	}
}

func TestBuildSources_SourcesBeforeGrids(t *testing.T) {
	cfg := &Config{
		Grids: []GridConfig{
			{
				Name:        "Grid",
				URLTemplate: "https://{{.env}}.example.com",
				Dimensions:  map[string][]string{"env": {"prod"}},
			},
		},
		Sources: []SourceConfig{
			{Name: "Direct", URL: "https://direct.example.com"},
		},
	}

	sources, err := BuildSources(cfg)
	if err != nil {
		t.Fatalf("BuildSources() error = %v", err)
	}

	var names []string
	for _, src := range sources {
		names = append(names, src.Name())
	}
	want := []string{"Direct", "Grid (prod)"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestBuildSources_EmptyConfig(t *testing.T) {
	sources, err := BuildSources(&Config{})
	if err != nil {
		t.Fatalf("BuildSources() error = %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("len(sources) = %d, want 0", len(sources))
	}
}

func TestBuildSources_GridMissingScheme(t *testing.T) {
	cfg := &Config{
		Grids: []GridConfig{
			{
				Name:        "Bad",
				URLTemplate: "{{.host}}/api/status",
				Dimensions:  map[string][]string{"host": {"example.com"}},
			},
		},
	}

	_, err := BuildSources(cfg)
	if err == nil {
		t.Fatal("BuildSources() expected error for URL without scheme")
	}
	if !strings.Contains(err.Error(), `grid "Bad"`) {
		t.Errorf("error = %q, want grid name in message", err.Error())
	}
}

func TestBuildSources_GridTemplateExecutionError(t *testing.T) {
	cfg := &Config{
		Grids: []GridConfig{
			{
				Name:        "Bad",
				URLTemplate: `https://example.com/{{index .env 5}}`,
				Dimensions:  map[string][]string{"env": {"prod"}},
			},
		},
	}

	_, err := BuildSources(cfg)
	if err == nil {
		t.Fatal("BuildSources() expected template execution error")
	}
	if !strings.Contains(err.Error(), "template execution failed") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestBoardOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
title: Cost Optimization Monitoring Tool
port: 9191
poll_interval: 5s
sources:
  - name: Live Status
    url: http://localhost:7071/api/status
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts, err := BoardOptions(cfg)
	if err != nil {
		t.Fatalf("BoardOptions() error = %v", err)
	}

	board, err := livestatus.New(opts...)
	if err != nil {
		t.Fatalf("livestatus.New() error = %v", err)
	}

	if board.Title() != "Cost Optimization Monitoring Tool" {
		t.Errorf("Title() = %q", board.Title())
	}
	if board.Port() != 9191 {
		t.Errorf("Port() = %d, want 9191", board.Port())
	}
	if board.PollingInterval() != 5*time.Second {
		t.Errorf("PollingInterval() = %v, want 5s", board.PollingInterval())
	}
	if len(board.Sources()) != 1 {
		t.Errorf("len(Sources()) = %d, want 1", len(board.Sources()))
	}
}

func TestBoardOptions_DefaultTitle(t *testing.T) {
	cfg := &Config{
		Port:         8080,
		PollInterval: Duration(3 * time.Second),
		Sources:      []SourceConfig{{Name: "A", URL: "http://a.local"}},
	}

	opts, err := BoardOptions(cfg)
	if err != nil {
		t.Fatalf("BoardOptions() error = %v", err)
	}
	board, err := livestatus.New(opts...)
	if err != nil {
		t.Fatalf("livestatus.New() error = %v", err)
	}
	if board.Title() != "Live Status" {
		t.Errorf("Title() = %q, want %q", board.Title(), "Live Status")
	}
}

func TestKeyValuePairs_Sorted(t *testing.T) {
	got := keyValuePairs(map[string]string{"b": "2", "a": "1", "c": "3"})
	want := []string{"a", "1", "b", "2", "c", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keyValuePairs() = %v, want %v", got, want)
	}
}
