// Package cache provides the Redis-backed response cache for the portfolio API.
//
// It implements the cache-aside pattern end to end:
//
//   - Client: a thin wrapper over Redis that degrades to a no-op when the
//     store is unreachable. Reads never fail the caller; a down store reads
//     as a miss, a failed write is logged and dropped.
//   - Deterministic keys: `{prefix}:{id | "all" | "all:<filter>"}` for entity
//     routes, plus the aggregate singletons `landing_page`, `dashboard_stats`
//     and `popular_content`.
//   - Response middleware: caches the JSON body of successful GET responses
//     keyed by request shape, with a per-route TTL.
//   - Invalidator: maps entity mutations to the glob patterns that must be
//     purged before the mutation's response is sent.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//
//	c := cache.New(redisClient, logger)
//	if err := c.Connect(ctx); err != nil {
//		// store unreachable: client stays usable in degraded no-op mode
//		logger.Warn().Err(err).Msg("cache degraded")
//	}
//
//	r.GET("/api/blogs", cache.Response(c, cache.Options{TTL: cache.DefaultTTL}), listBlogs)
//
// # Invalidation
//
//	inv := cache.NewInvalidator(c, logger)
//	// after a committed blog mutation, before the HTTP response:
//	inv.Invalidate(ctx, cache.EntityBlog, blogID)
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - portfolio_cache_hits_total - Cache hits
//   - portfolio_cache_misses_total - Cache misses
//   - portfolio_cache_errors_total{operation} - Cache operation errors
//   - portfolio_cache_invalidations_total{entity} - Invalidation runs by entity
package cache
