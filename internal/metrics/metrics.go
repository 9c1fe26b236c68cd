package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core query counters
	QueryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_requests_total",
			Help: "Total number of queries issued against the client",
		},
		[]string{"class"},
	)

	QueryHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_hits_total",
			Help: "Total number of queries answered from cache",
		},
		[]string{"class", "freshness"}, // freshness: "fresh" or "stale"
	)

	QueryMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_misses_total",
			Help: "Total number of queries that required an origin fetch",
		},
		[]string{"class"},
	)

	// Background refetches by reason
	Refetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_refetches_total",
			Help: "Total number of background refetches",
		},
		[]string{"reason"}, // "stale", "focus", "invalidate"
	)

	// Retries of failed fetches
	FetchRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "query_fetch_retries_total",
			Help: "Total number of automatic fetch retries",
		},
	)

	// Deduplicated concurrent fetches
	DedupedFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "query_deduped_fetches_total",
			Help: "Total number of fetches coalesced into an in-flight request",
		},
	)

	// Janitor evictions of unused entries
	GCEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "query_gc_evictions_total",
			Help: "Total number of entries evicted after their retention window",
		},
	)

	// Store errors
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_store_errors_total",
			Help: "Total number of store errors",
		},
		[]string{"level", "kind"}, // level: "l1"/"l2", kind: "encode"/"decode"/"upstream"
	)

	// Fetch latency
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "query_fetch_duration_seconds",
			Help:    "Duration of origin fetches",
			Buckets: prometheus.DefBuckets,
		},
	)

	// L1 capacity gauges
	StoreCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "query_store_capacity_bytes",
			Help: "L1 store capacity in bytes",
		},
		[]string{"level"},
	)

	StoreUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "query_store_used_bytes",
			Help: "L1 store used space in bytes",
		},
		[]string{"level"},
	)
)

// RecordQueryRequest records a query issued by a consumer
func RecordQueryRequest(class string) {
	QueryRequests.WithLabelValues(class).Inc()
}

// RecordQueryHit records a cache hit with its freshness
func RecordQueryHit(class string, fresh bool) {
	freshness := "stale"
	if fresh {
		freshness = "fresh"
	}
	QueryHits.WithLabelValues(class, freshness).Inc()
}

// RecordQueryMiss records a cache miss
func RecordQueryMiss(class string) {
	QueryMisses.WithLabelValues(class).Inc()
}

// RecordRefetch records a background refetch with its reason
func RecordRefetch(reason string) {
	Refetches.WithLabelValues(reason).Inc()
}

// RecordFetchRetry records an automatic retry of a failed fetch
func RecordFetchRetry() {
	FetchRetries.Inc()
}

// RecordDedupedFetch records a fetch coalesced into an in-flight one
func RecordDedupedFetch() {
	DedupedFetches.Inc()
}

// RecordGCEviction records eviction of an unused entry
func RecordGCEviction() {
	GCEvictions.Inc()
}

// RecordStoreError records a store error with level and kind
func RecordStoreError(level, kind string) {
	StoreErrors.WithLabelValues(level, kind).Inc()
}

// UpdateStoreCapacity updates L1 store capacity metrics
func UpdateStoreCapacity(capacity, used int64) {
	StoreCapacity.WithLabelValues("l1").Set(float64(capacity))
	StoreUsed.WithLabelValues("l1").Set(float64(used))
}

// TimeFetch returns a timer function for measuring origin fetch duration
func TimeFetch() func() {
	timer := prometheus.NewTimer(FetchDuration)
	return func() {
		timer.ObserveDuration()
	}
}
