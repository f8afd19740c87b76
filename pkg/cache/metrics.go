package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks responses served from Redis.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rmp_cache_hits_total",
			Help: "Total number of GraphQL responses served from cache",
		},
	)

	// CacheMisses tracks lookups that fell through to the upstream API.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rmp_cache_misses_total",
			Help: "Total number of GraphQL response cache misses",
		},
	)

	// CacheWrittenBytes tracks the volume of response bodies stored.
	CacheWrittenBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rmp_cache_written_bytes_total",
			Help: "Total bytes of encoded cache entries written to Redis",
		},
	)

	// CacheErrors tracks cache operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmp_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
