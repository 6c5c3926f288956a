package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set(ctx, "a", 1)
	v, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.SetWithTTL(ctx, "short", "v", -time.Second)
	_, ok := c.Get(ctx, "short")
	assert.False(t, ok, "expired entries must not be returned")
}

func TestCache_EvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	var evicted []string
	c := New(Config{
		DefaultTTL: time.Minute,
		MaxItems:   2,
		OnEviction: func(key string, _ any) { evicted = append(evicted, key) },
	})
	defer c.Close()

	c.SetWithTTL(ctx, "first", 1, time.Second)
	c.SetWithTTL(ctx, "second", 2, time.Hour)
	c.SetWithTTL(ctx, "third", 3, time.Hour)

	assert.Equal(t, 2, c.Size())
	assert.Equal(t, []string{"first"}, evicted, "entry closest to expiry is evicted")
	_, ok := c.Get(ctx, "third")
	assert.True(t, ok)
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, MaxItems: 1})
	defer c.Close()

	c.Set(ctx, "k", 1)
	c.Set(ctx, "k", 2)
	v, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Delete(ctx, "a")
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)

	c.Clear(ctx)
	assert.Equal(t, 0, c.Size())
}
