package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AggregationCycles counts completed wallet aggregation cycles by
	// outcome ("success", "cancelled").
	AggregationCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainfolio_aggregation_cycles_total",
			Help: "Completed wallet aggregation cycles by outcome.",
		},
		[]string{"outcome"},
	)

	// ProviderErrors counts absorbed provider failures per network and
	// asset class.
	ProviderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainfolio_provider_errors_total",
			Help: "Provider failures absorbed at the network aggregation boundary.",
		},
		[]string{"network", "asset_class"},
	)

	// AggregationDuration observes wall time of wallet aggregation
	// cycles.
	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chainfolio_aggregation_duration_seconds",
			Help:    "Duration of wallet aggregation cycles.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RefreshCoalesced counts refresh requests that joined an in-flight
	// cycle instead of starting a new one.
	RefreshCoalesced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chainfolio_refresh_coalesced_total",
			Help: "Refresh requests coalesced onto an in-flight cycle.",
		},
	)
)

// MustRegisterMetrics registers all engine metrics with the default
// Prometheus registry. Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		AggregationCycles,
		ProviderErrors,
		AggregationDuration,
		RefreshCoalesced,
	)
}
