package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func setupRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rc, err := NewRedisCache(&RedisCacheConfig{
		URL:        "redis://" + s.Addr(),
		KeyPrefix:  "test:",
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)
	return rc, s
}

func TestTieredCache_MemoryOnlyReadThrough(t *testing.T) {
	ctx := context.Background()
	tc := NewTieredCache[*hours](nil, nil)
	defer tc.Close()

	calls := 0
	fetch := func(_ context.Context, _ string) (*hours, error) {
		calls++
		return &hours{Start: "09:00", End: "18:00"}, nil
	}

	first, err := tc.Get(ctx, "ws-1", fetch)
	require.NoError(t, err)
	second, err := tc.Get(ctx, "ws-1", fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second read must be served from L1")
	assert.Equal(t, first, second)
}

func TestTieredCache_FetchErrorNotCached(t *testing.T) {
	ctx := context.Background()
	tc := NewTieredCache[*hours](nil, nil)
	defer tc.Close()

	boom := errors.New("db down")
	_, err := tc.Get(ctx, "ws-1", func(context.Context, string) (*hours, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	got, err := tc.Get(ctx, "ws-1", func(context.Context, string) (*hours, error) {
		return &hours{Start: "10:00"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00", got.Start)
}

func TestTieredCache_CachesNilResult(t *testing.T) {
	ctx := context.Background()
	tc := NewTieredCache[*hours](nil, nil)
	defer tc.Close()

	calls := 0
	fetch := func(context.Context, string) (*hours, error) {
		calls++
		return nil, nil
	}
	for i := 0; i < 3; i++ {
		got, err := tc.Get(ctx, "absent", fetch)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, 1, calls)
}

func TestTieredCache_SharedThroughRedis(t *testing.T) {
	ctx := context.Background()
	rc, s := setupRedis(t)

	writer := NewTieredCache[*hours](nil, rc)
	writer.Set(ctx, "ws-1", &hours{Start: "08:30", End: "17:30"})
	assert.True(t, s.Exists("test:ws-1"))

	// A second instance with an empty L1 sees the value through L2.
	reader := NewTieredCache[*hours](nil, rc)
	got, err := reader.Get(ctx, "ws-1", func(context.Context, string) (*hours, error) {
		t.Fatal("L3 must not be consulted on an L2 hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "08:30", got.Start)

	reader.Delete(ctx, "ws-1")
	assert.False(t, s.Exists("test:ws-1"))
	require.NoError(t, writer.Close())
}

func TestTieredCache_DropsCorruptL2Entry(t *testing.T) {
	ctx := context.Background()
	rc, s := setupRedis(t)
	defer rc.Close()
	require.NoError(t, s.Set("test:ws-1", "not json"))

	tc := NewTieredCache[*hours](nil, rc)
	got, err := tc.Get(ctx, "ws-1", func(context.Context, string) (*hours, error) {
		return &hours{Start: "07:00"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "07:00", got.Start)

	stored, err := s.Get("test:ws-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"07:00","end":""}`, stored)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(&RedisCacheConfig{URL: "://nope"})
	assert.Error(t, err)
}
