package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/internal/municipality"
	"fiscalcode/internal/municipality/metrics"
	"fiscalcode/pkg/platform/circuit"
)

const (
	layerRedis = "redis"
	keyPrefix  = "municipality:"
)

// RedisCache is a shared read-through cache in front of another Resolver.
// Redis failures fall back to the underlying resolver and, once repeated,
// open a circuit that bypasses Redis until a probe succeeds. Lookup misses
// are never cached so a registry update is visible immediately.
type RedisCache struct {
	client  redis.UniversalClient
	next    municipality.Resolver
	ttl     time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithLogger logs degraded cache operations.
func WithLogger(logger *slog.Logger) RedisOption {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

// WithMetrics records hits and misses.
func WithMetrics(m *metrics.Metrics) RedisOption {
	return func(c *RedisCache) {
		c.metrics = m
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *circuit.Breaker) RedisOption {
	return func(c *RedisCache) {
		if b != nil {
			c.breaker = b
		}
	}
}

// NewRedisCache wraps next. ttl must be positive.
func NewRedisCache(client redis.UniversalClient, next municipality.Resolver, ttl time.Duration, opts ...RedisOption) (*RedisCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if next == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	c := &RedisCache{client: client, next: next, ttl: ttl, breaker: circuit.New(layerRedis)}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Resolve serves from Redis or delegates and stores the result.
func (c *RedisCache) Resolve(ctx context.Context, name string) (fiscalcode.CadastralCode, error) {
	useRedis := c.breaker.Allow()
	if useRedis {
		raw, err := c.client.Get(ctx, key(name)).Result()
		switch {
		case err == nil:
			c.breaker.RecordSuccess()
			if code, perr := fiscalcode.ParseCadastralCode(raw); perr == nil {
				c.metrics.RecordCacheHit(layerRedis)
				return code, nil
			}
			c.warn(ctx, "discarding malformed cached cadastral code", name, fmt.Errorf("value %q", raw))
		case errors.Is(err, redis.Nil):
			c.breaker.RecordSuccess()
		default:
			c.fail(ctx, "redis get failed, falling back to registry", name, err)
			useRedis = false
		}
	}
	c.metrics.RecordCacheMiss(layerRedis)

	code, err := c.next.Resolve(ctx, name)
	if err != nil {
		return "", err
	}
	if useRedis {
		if err := c.client.Set(ctx, key(name), code.String(), c.ttl).Err(); err != nil {
			c.fail(ctx, "redis set failed", name, err)
		}
	}
	return code, nil
}

// Invalidate removes a cached name.
func (c *RedisCache) Invalidate(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, key(name)).Err(); err != nil {
		return fmt.Errorf("invalidate municipality %q: %w", name, err)
	}
	return nil
}

func (c *RedisCache) fail(ctx context.Context, msg, name string, err error) {
	c.warn(ctx, msg, name, err)
	if c.breaker.RecordFailure() {
		c.warn(ctx, "redis cache circuit opened", name, err)
	}
}

func (c *RedisCache) warn(ctx context.Context, msg, name string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.WarnContext(ctx, msg,
		"municipality", name,
		"error", err,
	)
}

func key(name string) string {
	return keyPrefix + name
}
