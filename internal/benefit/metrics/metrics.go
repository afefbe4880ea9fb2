package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the benefit ledger's Prometheus metrics.
type Metrics struct {
	RetireesRegistered prometheus.Counter
	StatusUpdates      prometheus.Counter
	PaymentsRecorded   prometheus.Counter
	PaymentAmounts     prometheus.Counter
	RejectedMutations  *prometheus.CounterVec
	TotalsCacheHits    prometheus.Counter
	TotalsCacheMisses  prometheus.Counter
}

// New creates and registers the benefit metrics.
func New() *Metrics {
	return &Metrics{
		RetireesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_retirees_registered_total",
			Help: "Total retirees registered in the benefit ledger.",
		}),
		StatusUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_retiree_status_updates_total",
			Help: "Total successful retiree status updates.",
		}),
		PaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_benefit_payments_recorded_total",
			Help: "Total benefit payments recorded.",
		}),
		PaymentAmounts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_benefit_payment_amount_total",
			Help: "Sum of recorded benefit payment amounts.",
		}),
		RejectedMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pension_ledger_benefit_rejected_mutations_total",
			Help: "Benefit ledger mutations rejected, by error code.",
		}, []string{"code"}),
		TotalsCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_payment_totals_cache_hits_total",
			Help: "Payment total aggregations served from cache.",
		}),
		TotalsCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_payment_totals_cache_misses_total",
			Help: "Payment total aggregations computed from the store.",
		}),
	}
}
