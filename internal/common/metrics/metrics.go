// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts query cache lookups by query and outcome
	// (hit, miss, shared, store_error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealer_query_cache_lookups_total",
			Help: "Total number of query cache lookups by outcome",
		},
		[]string{"query", "outcome"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealer_query_cache_invalidated_keys_total",
			Help: "Total number of cached query keys removed by tag invalidation",
		},
		[]string{"tag"},
	)

	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealer_remote_api_requests_total",
			Help: "Total number of requests sent to the dealership API",
		},
		[]string{"method", "endpoint", "status"},
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dealer_remote_api_request_duration_seconds",
			Help:    "Duration of requests sent to the dealership API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	DraftTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealer_draft_transitions_total",
			Help: "Draft step submissions and finalizations by outcome",
		},
		[]string{"step", "outcome"},
	)

	OperationsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dealer_operations_in_flight",
			Help: "Number of awaited operations currently in flight",
		},
		[]string{"operation"},
	)
)
