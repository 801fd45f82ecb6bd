// Package memory provides an in-process outbound.CacheRepository, for
// tests and for hosts that don't want a Redis dependency (spec.md §4.10
// domain stack wiring). Nothing in this module routes DishRepository
// queries through it.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
)

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository implements outbound.CacheRepository with a mutex-guarded
// map. Expired entries are reaped lazily on Get rather than via a
// background goroutine, since this adapter is meant for tests and small
// single-process deployments, not a long-lived cache server.
type CacheRepository struct {
	mu   sync.RWMutex
	data map[string]cacheItem
}

// NewCacheRepository builds an empty in-memory cache.
func NewCacheRepository() outbound.CacheRepository {
	return &CacheRepository{data: make(map[string]cacheItem)}
}

func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	item, ok := r.data[key]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		r.mu.Lock()
		delete(r.data, key)
		r.mu.Unlock()
		return nil, false, nil
	}
	return item.value, true, nil
}

func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	var expiresAt time.Time
	if ttlSeconds > 0 {
		expiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	}
	r.mu.Lock()
	r.data[key] = cacheItem{value: value, expiresAt: expiresAt}
	r.mu.Unlock()
	return nil
}

func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.data, key)
	r.mu.Unlock()
	return nil
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)
