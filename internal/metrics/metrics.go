// Package metrics exposes pipeline counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/invoice-extractor/internal/core"
)

const namespace = "invoice_extractor"

// Metrics implements core.Observer.
type Metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	errors    *prometheus.CounterVec
	records   prometheus.Counter
	warnings  prometheus.Counter
	duration  *prometheus.HistogramVec
	ledger    *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, alongside the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by detected supplier, parsing method and outcome.",
		}, []string{"supplier", "parsing_method", "outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Envelope errors by code.",
		}, []string{"code"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Canonical records emitted.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomaly_warnings_total",
			Help:      "Anomaly warnings raised.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Wall time per document.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 180},
		}, []string{"parsing_method"}),
		ledger: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Ledger outcomes: appended, duplicate or error.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.documents, m.errors, m.records, m.warnings, m.duration, m.ledger,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveDocument(env *core.Envelope, elapsed time.Duration) {
	outcome := "success"
	if !env.Success {
		outcome = "failure"
	}
	m.documents.WithLabelValues(env.Metadata.SupplierDetected, env.Metadata.ParsingMethod, outcome).Inc()
	for _, e := range env.Errors {
		m.errors.WithLabelValues(e.Code).Inc()
	}
	m.records.Add(float64(len(env.Records)))
	m.warnings.Add(float64(len(env.Warnings)))
	m.duration.WithLabelValues(env.Metadata.ParsingMethod).Observe(elapsed.Seconds())
}

// ObserveLedger counts a ledger outcome.
func (m *Metrics) ObserveLedger(outcome string) {
	m.ledger.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
