package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus instruments for one checking run. All
// instruments live on a private registry so tests can create independent
// instances without collisions.
type Metrics struct {
	registry *prometheus.Registry

	// FilesProcessed counts clock files parsed to end-of-file.
	FilesProcessed prometheus.Counter
	// FilesMissing counts input files reported missing or unreadable.
	FilesMissing prometheus.Counter
	// ClockRecordsTotal counts extracted clock value records.
	ClockRecordsTotal prometheus.Counter
	// JumpRecordsTotal counts extracted jump records.
	JumpRecordsTotal prometheus.Counter
	// DiagnosticsTotal counts emitted diagnostics by severity.
	DiagnosticsTotal *prometheus.CounterVec
}

// NewMetrics creates a metrics bundle on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		FilesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkbipm_files_processed_total",
			Help: "Number of clock files parsed to end-of-file.",
		}),
		FilesMissing: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkbipm_files_missing_total",
			Help: "Number of input files reported missing or unreadable.",
		}),
		ClockRecordsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkbipm_clock_records_total",
			Help: "Number of clock value records extracted.",
		}),
		JumpRecordsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkbipm_jump_records_total",
			Help: "Number of jump records extracted.",
		}),
		DiagnosticsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "checkbipm_diagnostics_total",
			Help: "Number of parse diagnostics emitted, by severity.",
		}, []string{"severity"}),
	}
}

// Handler returns an HTTP handler exposing the metrics registry in the
// Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
