package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application-level Prometheus metrics. Module-specific
// counters live in each module's metrics package.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	AuditEvents    prometheus.Counter
}

// New creates and registers the application metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pension_ledger_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		AuditEvents: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_audit_events_total",
			Help: "Total audit events emitted by ledger mutations.",
		}),
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	m.RequestLatency.WithLabelValues(route, method, status).Observe(seconds)
}
