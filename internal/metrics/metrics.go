// Package metrics exposes copy generation counters over Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campus-poster/backend/internal/copygen"
)

// Metrics implements copygen.Recorder on a dedicated registry.
type Metrics struct {
	registry      *prometheus.Registry
	generations   *prometheus.CounterVec
	modelFailures *prometheus.CounterVec
	modelDuration prometheus.Histogram
}

// New registers the copy metrics plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.generations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "copy",
		Name:      "generations_total",
		Help:      "Copy results returned, by producing path",
	}, []string{"source"})
	m.modelFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "copy",
		Name:      "model_failures_total",
		Help:      "Model calls that fell back to the template, by error kind",
	}, []string{"kind"})
	m.modelDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "copy",
		Name:      "model_duration_seconds",
		Help:      "Time spent in model calls including validation",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	})
	m.registry.MustRegister(
		m.generations,
		m.modelFailures,
		m.modelDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveModelCall records latency and, on failure, the error kind.
func (m *Metrics) ObserveModelCall(d time.Duration, err error) {
	m.modelDuration.Observe(d.Seconds())
	if err != nil {
		m.modelFailures.WithLabelValues(copygen.ErrorKind(err)).Inc()
	}
}

// ObserveGeneration counts a returned copy result.
func (m *Metrics) ObserveGeneration(source copygen.Source) {
	m.generations.WithLabelValues(string(source)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
