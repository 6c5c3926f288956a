package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// TieredCache implements a three-tier read-through cache:
// - L1: In-memory cache (fast, per process, DEFAULT)
// - L2: Redis cache (shared, OPTIONAL)
// - L3: Fetcher callback (the database)
//
// Values are stored as T in L1 and JSON-encoded in L2.
type TieredCache[T any] struct {
	l1    *Cache
	l2    RedisCacheInterface
	l2TTL time.Duration
}

// Fetcher loads a value from the source of truth (L3).
type Fetcher[T any] func(ctx context.Context, key string) (T, error)

// TieredCacheConfig holds the configuration for the tiered cache.
type TieredCacheConfig struct {
	L1MaxItems int           // Max items in L1 memory cache
	L1TTL      time.Duration // TTL for L1 cache entries
	L2TTL      time.Duration // TTL for L2 Redis cache entries
}

// DefaultTieredConfig returns the default tiered cache configuration.
func DefaultTieredConfig() *TieredCacheConfig {
	return &TieredCacheConfig{
		L1MaxItems: 1000,
		L1TTL:      5 * time.Minute,
		L2TTL:      30 * time.Minute,
	}
}

// NewTieredCache creates a tiered cache. l2 may be nil to run memory-only.
func NewTieredCache[T any](config *TieredCacheConfig, l2 RedisCacheInterface) *TieredCache[T] {
	if config == nil {
		config = DefaultTieredConfig()
	}
	return &TieredCache[T]{
		l1: New(Config{
			DefaultTTL:      config.L1TTL,
			CleanupInterval: time.Minute,
			MaxItems:        config.L1MaxItems,
		}),
		l2:    l2,
		l2TTL: config.L2TTL,
	}
}

// Get returns the cached value for key, consulting L1, then L2, then fetch.
// Fetch errors are returned and nothing is cached.
func (t *TieredCache[T]) Get(ctx context.Context, key string, fetch Fetcher[T]) (T, error) {
	if value, ok := t.l1.Get(ctx, key); ok {
		if typed, ok := value.(T); ok {
			return typed, nil
		}
	}

	if t.l2 != nil {
		if data, ok := t.l2.Get(ctx, key); ok {
			var value T
			if err := json.Unmarshal(data, &value); err == nil {
				// Promote to L1
				t.l1.Set(ctx, key, value)
				return value, nil
			}
			slog.Warn("discarding undecodable L2 cache entry", "key", key)
			t.l2.Delete(ctx, key)
		}
	}

	value, err := fetch(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	t.Set(ctx, key, value)
	return value, nil
}

// Set stores a value in both tiers.
func (t *TieredCache[T]) Set(ctx context.Context, key string, value T) {
	t.l1.Set(ctx, key, value)
	if t.l2 == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("failed to encode L2 cache entry", "key", key, "error", err)
		return
	}
	if err := t.l2.SetWithTTL(ctx, key, data, t.l2TTL); err != nil {
		slog.Warn("failed to write L2 cache entry", "key", key, "error", err)
	}
}

// Delete removes a value from both tiers.
func (t *TieredCache[T]) Delete(ctx context.Context, key string) {
	t.l1.Delete(ctx, key)
	if t.l2 != nil {
		t.l2.Delete(ctx, key)
	}
}

// Stats returns cache statistics.
func (t *TieredCache[T]) Stats() map[string]any {
	return map[string]any{
		"l1_size":    t.l1.Size(),
		"l2_enabled": t.l2 != nil,
	}
}

// Close releases both tiers.
func (t *TieredCache[T]) Close() error {
	var errs []error
	if t.l2 != nil {
		if err := t.l2.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := t.l1.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Errorf("multiple errors: %v", errs)
	}
	return nil
}
