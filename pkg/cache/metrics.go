package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by read operation
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of catalog cache hits",
		},
		[]string{"operation"}, // "products_list", "product_detail", "products_stats"
	)

	// CacheMisses tracks cache misses by read operation
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of catalog cache misses",
		},
		[]string{"operation"},
	)

	// CacheCorrupt tracks entries that could not be decoded
	CacheCorrupt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_corrupt_total",
			Help: "Total number of cache entries that failed to decode",
		},
	)

	// CacheInvalidations tracks invalidations by scope
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_invalidations_total",
			Help: "Total number of cache invalidations by scope",
		},
		[]string{"scope"}, // "list", "detail", "stats"
	)

	// CacheErrors tracks backend operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "scan", "ping"
	)

	// CacheAvailable is 1 while the backend answers health checks
	CacheAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_cache_available",
			Help: "Whether the cache backend is currently available (1) or bypassed (0)",
		},
	)
)
