// Package redis provides the Redis-backed outbound.CacheRepository (spec.md
// §4.10 domain stack wiring) and a no-op fallback for when Redis is
// unreachable at startup. Nothing routes DishRepository queries through
// this cache; planner.Service reads the repository directly.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

// CacheRepository implements outbound.CacheRepository over a single Redis
// client, the same connection-injected shape as the teacher's repository
// adapters.
type CacheRepository struct {
	client     *redis.Client
	defaultTTL time.Duration
	logger     *zap.Logger
}

// NewCacheRepository wires a Redis-backed cache. defaultTTL is used when a
// caller passes ttlSeconds <= 0 to Set.
func NewCacheRepository(client *redis.Client, defaultTTL time.Duration, logger *zap.Logger) outbound.CacheRepository {
	return &CacheRepository{client: client, defaultTTL: defaultTTL, logger: logger.Named("redis-cache-repository")}
}

func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	ttl := r.defaultTTL
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// NoopCacheRepository discards every write and always misses on Get. It
// backs CacheModule's degrade path when Redis isn't reachable at startup
// (container.go), so a catalog cache outage never turns into a planner
// outage.
type NoopCacheRepository struct{}

// NewNoopCacheRepository builds a cache that never stores anything.
func NewNoopCacheRepository() outbound.CacheRepository {
	return NoopCacheRepository{}
}

func (NoopCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (NoopCacheRepository) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return nil
}
func (NoopCacheRepository) Delete(ctx context.Context, key string) error { return nil }

var _ outbound.CacheRepository = NoopCacheRepository{}
