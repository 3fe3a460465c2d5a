package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	SearchTierTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewdex",
			Name:      "search_tier_attempts_total",
			Help:      "Vector search attempts per tier and outcome",
		},
		[]string{"tier", "status"}, // tier: structured/legacy, status: ok/error
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewdex",
			Name:      "search_duration_seconds",
			Help:      "End-to-end retrieval duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)

	RowResolutionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewdex",
			Name:      "row_resolution_total",
			Help:      "Row resolutions per path",
		},
		[]string{"path"}, // inline / kv_fetch / query / dropped
	)
)

// RegisterRetrievalMetrics registers retrieval collectors with the default registry.
func RegisterRetrievalMetrics() {
	prometheus.MustRegister(
		SearchTierTotal,
		SearchDuration,
		RowResolutionTotal,
	)
}
