package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the allocation ledger's Prometheus metrics.
type Metrics struct {
	AssetClassesCreated prometheus.Counter
	AllocationUpdates   prometheus.Counter
	ValueUpdates        prometheus.Counter
	RejectedMutations   *prometheus.CounterVec
}

// New creates and registers the allocation metrics.
func New() *Metrics {
	return &Metrics{
		AssetClassesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_asset_classes_created_total",
			Help: "Total asset classes added to the allocation ledger.",
		}),
		AllocationUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_allocation_updates_total",
			Help: "Total successful allocation percentage updates.",
		}),
		ValueUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pension_ledger_asset_value_updates_total",
			Help: "Total successful asset value updates (per-class and fund total).",
		}),
		RejectedMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pension_ledger_allocation_rejected_mutations_total",
			Help: "Allocation ledger mutations rejected, by error code.",
		}, []string{"code"}),
	}
}
