package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// maxConnectAttempts is the retry ceiling for Connect.
	maxConnectAttempts = 10

	// connectBackoffStep grows the delay between connect attempts.
	connectBackoffStep = 100 * time.Millisecond

	// maxConnectBackoff caps the delay between connect attempts.
	maxConnectBackoff = 3 * time.Second

	// defaultOpTimeout bounds every store operation so a slow store
	// degrades to a miss instead of blocking the request.
	defaultOpTimeout = 500 * time.Millisecond

	// scanBatchSize is the SCAN page size for pattern deletion.
	scanBatchSize = 100
)

// Client wraps a Redis connection and degrades to a no-op when the store is
// unreachable. Read and write failures are logged and swallowed: a failed
// Get reads as a miss, a failed Set is dropped. Callers never see cache
// errors.
type Client struct {
	rdb       *redis.Client
	logger    zerolog.Logger
	opTimeout time.Duration
	connected atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithOpTimeout overrides the per-operation timeout.
func WithOpTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.opTimeout = d
		}
	}
}

// New creates a cache client around an existing Redis connection. The client
// starts disconnected; call Connect before use. A nil Redis client yields a
// permanently degraded no-op client.
func New(redisClient *redis.Client, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		rdb:       redisClient,
		logger:    logger,
		opTimeout: defaultOpTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect pings the store, retrying with a bounded linear backoff
// (min(attempt x 100ms, 3s)) up to the retry ceiling. On exhaustion it
// returns a terminal error and leaves the client in degraded no-op mode;
// the host process keeps running either way.
func (c *Client) Connect(ctx context.Context) error {
	if c.rdb == nil {
		return fmt.Errorf("cache: no redis client configured")
	}

	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
		err := c.rdb.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			c.connected.Store(true)
			c.logger.Info().Int("attempt", attempt).Msg("Cache store connected")
			return nil
		}

		lastErr = err
		CacheErrors.WithLabelValues("connect").Inc()
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Msg("Cache store connection failed")

		if attempt == maxConnectAttempts {
			break
		}

		delay := time.Duration(attempt) * connectBackoffStep
		if delay > maxConnectBackoff {
			delay = maxConnectBackoff
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("cache connect cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("cache connect failed after %d attempts: %w", maxConnectAttempts, lastErr)
}

// Ready reports whether the client has an established store connection.
func (c *Client) Ready() bool {
	return c.rdb != nil && c.connected.Load()
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	c.connected.Store(false)
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Get returns the raw cached bytes for key and whether the key was present.
// A disconnected store, a missing key, or a store error all read as absent.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Ready() {
		return nil, false
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	data, err := c.rdb.Get(opCtx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			CacheErrors.WithLabelValues("get").Inc()
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache get error")
		}
		CacheMisses.Inc()
		c.logger.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}

	CacheHits.Inc()
	c.logger.Debug().Str("key", key).Msg("Cache hit")
	return data, true
}

// GetJSON unmarshals the cached value for key into dest. A decode failure
// reads as a miss and evicts the corrupt entry.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) bool {
	data, ok := c.Get(ctx, key)
	if !ok {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("Corrupt cache entry, evicting")
		c.Delete(ctx, key)
		return false
	}

	return true
}

// Set stores value under key with the given TTL. Byte slices are stored
// as-is; anything else is JSON-serialized. No-ops when degraded; logs but
// never returns store failures.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Ready() || ttl <= 0 {
		return
	}

	data, ok := value.([]byte)
	if !ok {
		var err error
		data, err = json.Marshal(value)
		if err != nil {
			CacheErrors.WithLabelValues("set").Inc()
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache marshal error")
			return
		}
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	if err := c.rdb.Set(opCtx, key, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache set error")
		return
	}

	c.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("Cached value")
}

// Delete removes a single key. Absence is not an error.
func (c *Client) Delete(ctx context.Context, key string) {
	if !c.Ready() {
		return
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	if err := c.rdb.Del(opCtx, key).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache delete error")
	}
}

// DeleteByPattern removes every key matching the glob pattern. Keys are
// enumerated with SCAN and removed in one batch. No-ops when degraded or
// when nothing matches.
func (c *Client) DeleteByPattern(ctx context.Context, pattern string) {
	if !c.Ready() {
		return
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	var keys []string
	iter := c.rdb.Scan(opCtx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(opCtx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		CacheErrors.WithLabelValues("scan").Inc()
		c.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache scan error")
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := c.rdb.Del(opCtx, keys...).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		c.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache pattern delete error")
		return
	}

	c.logger.Debug().Str("pattern", pattern).Int("keys", len(keys)).Msg("Purged cache keys")
}

// Exists reports key membership. Returns false, not an error, when degraded.
func (c *Client) Exists(ctx context.Context, key string) bool {
	if !c.Ready() {
		return false
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	n, err := c.rdb.Exists(opCtx, key).Result()
	if err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache exists error")
		return false
	}
	return n > 0
}

func (c *Client) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, c.opTimeout)
}
