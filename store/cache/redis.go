package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheInterface is the L2 cache contract. Values cross process
// boundaries, so they are stored as encoded bytes.
//
// Redis is OPTIONAL and only needed for multi-instance deployments where
// workspace preference changes must be visible to every instance.
type RedisCacheInterface interface {
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool)
	Delete(ctx context.Context, key string)
	Close() error
}

// RedisCacheConfig holds the Redis connection configuration.
type RedisCacheConfig struct {
	URL        string
	KeyPrefix  string
	DefaultTTL time.Duration
}

// DefaultRedisConfig returns the default Redis configuration.
func DefaultRedisConfig() *RedisCacheConfig {
	return &RedisCacheConfig{
		URL:        "redis://localhost:6379/0",
		KeyPrefix:  "flowstate:",
		DefaultTTL: 30 * time.Minute,
	}
}

// RedisCache implements RedisCacheInterface on go-redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(config *RedisCacheConfig) (*RedisCache, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCache{client: client, prefix: config.KeyPrefix}, nil
}

func (r *RedisCache) key(k string) string {
	return r.prefix + k
}

// SetWithTTL stores an encoded value.
func (r *RedisCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns an encoded value. Lookup failures are reported as misses.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Delete removes a value.
func (r *RedisCache) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		slog.Warn("redis cache delete failed", "key", key, "error", err)
	}
}

// Close closes the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// GenerateCacheKey joins components into a namespaced key.
func GenerateCacheKey(components ...string) string {
	return strings.Join(components, ":")
}
