// Package cache provides the in-memory and Redis caches used by the store.
package cache

import (
	"context"
	"sync"
	"time"
)

// Config holds the settings of an in-memory cache.
type Config struct {
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
	MaxItems        int
	OnEviction      func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is a size-bounded in-memory cache with per-entry expiry.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]item
	config Config

	stop chan struct{}
	once sync.Once
}

// New creates a cache and starts its cleanup goroutine when CleanupInterval > 0.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.MaxItems <= 0 {
		config.MaxItems = 1000
	}

	c := &Cache{
		items:  make(map[string]item),
		config: config,
		stop:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.cleanupLoop(config.CleanupInterval)
	}
	return c
}

// Set stores a value with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.config.MaxItems {
		c.evictOneLocked()
	}
	c.items[key] = item{value: value, expiresAt: time.Now().Add(ttl)}
}

// Get returns a live value.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

// Delete removes a value.
func (c *Cache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear removes every value.
func (c *Cache) Clear(_ context.Context) {
	c.mu.Lock()
	c.items = make(map[string]item)
	c.mu.Unlock()
}

// Size returns the number of stored entries, including expired ones not yet cleaned up.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine.
func (c *Cache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// evictOneLocked drops the entry closest to expiry. Caller holds the lock.
func (c *Cache) evictOneLocked() {
	var (
		victim string
		oldest time.Time
	)
	for k, it := range c.items {
		if victim == "" || it.expiresAt.Before(oldest) {
			victim, oldest = k, it.expiresAt
		}
	}
	if victim == "" {
		return
	}
	evicted := c.items[victim]
	delete(c.items, victim)
	if c.config.OnEviction != nil {
		c.config.OnEviction(victim, evicted.value)
	}
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) deleteExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
			if c.config.OnEviction != nil {
				c.config.OnEviction(k, it.value)
			}
		}
	}
}
