package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "connect", "get", "set", "delete", "scan"
	)

	// CacheInvalidations tracks invalidation runs by entity type
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_invalidations_total",
			Help: "Total number of cache invalidation runs by entity type",
		},
		[]string{"entity"},
	)
)
