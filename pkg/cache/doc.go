// Package cache provides a Redis-backed cache for GraphQL responses.
//
// Every request against the ratings endpoint is a POST to the same URL, so
// entries are keyed by operation name plus a SHA-256 digest of the request
// body (query document and variables). Two requests with identical
// variables share an entry; a pagination request with a new cursor does not.
//
// # Basic Usage
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.CacheKey{
//		Operation: "TeacherSearchPaginationQuery",
//		Body:      requestBody,
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch upstream, then:
//		entry, _ = cache.ResponseToEntry(resp, 10*time.Minute)
//		_ = manager.Set(ctx, key, entry)
//	}
//
// Only 2xx responses are cached. A zero TTL disables caching entirely,
// which is the default for the collector.
//
// # Metrics
//
//   - rmp_cache_hits_total
//   - rmp_cache_misses_total
//   - rmp_cache_written_bytes_total
//   - rmp_cache_errors_total{operation}
package cache
