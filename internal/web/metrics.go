package web

import (
	"github.com/prometheus/client_golang/prometheus"

	"icsvalidate/internal/report"
)

// metrics holds the collectors exposed on /metrics. Each Server owns its
// own registry so that tests can create servers freely.
type metrics struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	duration    prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "icsvalidate_runs_total",
			Help: "Number of validated documents by result (valid, invalid).",
		}, []string{"result"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "icsvalidate_diagnostics_total",
			Help: "Number of reported diagnostics by severity.",
		}, []string{"severity"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "icsvalidate_run_duration_seconds",
			Help:    "Time spent validating a single document.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	m.registry.MustRegister(m.runs, m.diagnostics, m.duration)
	return m
}

func (m *metrics) observe(r report.Report, seconds float64) {
	result := "valid"
	if !r.Valid {
		result = "invalid"
	}
	m.runs.WithLabelValues(result).Inc()
	m.diagnostics.WithLabelValues("error").Add(float64(len(r.Errors)))
	m.diagnostics.WithLabelValues("warning").Add(float64(len(r.Warnings)))
	m.duration.Observe(seconds)
}
