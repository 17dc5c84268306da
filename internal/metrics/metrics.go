// Package metrics exposes Prometheus collectors describing status fetches.
//
// Each board owns its own registry so that several boards (and tests) can
// run in one process without colliding on the default registerer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "livestatus"

// Outcome label values for FetchesTotal.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// fetch latency buckets in seconds
var durationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics groups the collectors registered for one board.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	FetchesActive *prometheus.GaugeVec
	MappingFields *prometheus.GaugeVec
}

// New creates a registry and registers the fetch collectors on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Status fetches by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Time taken by status fetches, including body decoding.",
				Buckets:   durationBuckets,
			},
			[]string{"source"},
		),
		FetchesActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fetches_in_flight",
				Help:      "Status fetches currently waiting on a response. Values above one mean requests overlap.",
			},
			[]string{"source"},
		),
		MappingFields: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mapping_fields",
				Help:      "Number of fields in the most recent successful status document.",
			},
			[]string{"source"},
		),
	}
}

// FetchStarted marks a fetch as in flight.
func (m *Metrics) FetchStarted(source string) {
	if m == nil {
		return
	}
	m.FetchesActive.WithLabelValues(source).Inc()
}

// FetchFinished records the outcome of a fetch started with FetchStarted.
// fields is ignored when err is non-nil.
func (m *Metrics) FetchFinished(source string, d time.Duration, fields int, err error) {
	if m == nil {
		return
	}
	m.FetchesActive.WithLabelValues(source).Dec()
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())

	if err != nil {
		m.FetchesTotal.WithLabelValues(source, OutcomeError).Inc()
		return
	}
	m.FetchesTotal.WithLabelValues(source, OutcomeSuccess).Inc()
	m.MappingFields.WithLabelValues(source).Set(float64(fields))
}

// FetchAbandoned releases the in-flight slot of a fetch that was cancelled
// because its board stopped. Nothing else is recorded.
func (m *Metrics) FetchAbandoned(source string) {
	if m == nil {
		return
	}
	m.FetchesActive.WithLabelValues(source).Dec()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
