package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CollectionMetrics counts what the collection pipeline does per run. The
// daemon command exposes them on /metrics; one-shot runs register them too
// so both modes share the same instrumentation path.
type CollectionMetrics struct {
	ResourcesCollected *prometheus.CounterVec
	AccountFailures    *prometheus.CounterVec
	RunsTotal          prometheus.Counter
	RunDuration        prometheus.Histogram
}

// NewCollectionMetrics creates and registers the collection counters.
func NewCollectionMetrics(reg prometheus.Registerer) *CollectionMetrics {
	m := &CollectionMetrics{
		ResourcesCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cloudherd",
			Name:      "resources_collected_total",
			Help:      "Resources processed, by account and service.",
		}, []string{"account_id", "service"}),
		AccountFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cloudherd",
			Name:      "account_failures_total",
			Help:      "Accounts skipped because role assumption failed.",
		}, []string{"account_id"}),
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cloudherd",
			Name:      "runs_total",
			Help:      "Completed collection runs.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cloudherd",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a full collection run.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.ResourcesCollected, m.AccountFailures, m.RunsTotal, m.RunDuration)
	}
	return m
}
