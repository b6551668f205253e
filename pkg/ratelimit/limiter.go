// Package ratelimit provides a Redis-backed fixed-window request limiter
// for the public write endpoints (contact form, newsletter subscribe).
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limiting.
var (
	rateLimitBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_rate_limit_blocks_total",
		Help: "Total number of requests blocked by the rate limiter",
	}, []string{"scope"})
)

// Limiter gates requests per client IP within a fixed time window.
// A failing or absent Redis store fails open: limiting is an abuse shield,
// not a correctness guarantee, so store trouble must never reject traffic.
type Limiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	logger zerolog.Logger
}

// NewLimiter creates a limiter allowing limit requests per window per IP.
func NewLimiter(redisClient *redis.Client, limit int, window time.Duration, logger zerolog.Logger) *Limiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Allow reports whether another request from ip is permitted under scope.
func (l *Limiter) Allow(ctx context.Context, scope, ip string) bool {
	if l.redis == nil {
		return true
	}

	key := fmt.Sprintf("ratelimit:%s:%s", scope, ip)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn().Err(err).Str("scope", scope).Msg("Rate limit check failed, failing open")
		return true
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn().Err(err).Str("scope", scope).Msg("Rate limit expire failed")
		}
	}

	return count <= int64(l.limit)
}

// Middleware returns a gin handler that rejects over-limit requests with
// 429 before the route handler runs.
func (l *Limiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.Request.Context(), scope, c.ClientIP()) {
			rateLimitBlocksTotal.WithLabelValues(scope).Inc()
			l.logger.Warn().
				Str("scope", scope).
				Str("ip", c.ClientIP()).
				Msg("Request blocked by rate limiter")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, try again later",
			})
			return
		}
		c.Next()
	}
}
