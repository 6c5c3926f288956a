package test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/flowstate-app/flowstate/store"
	"github.com/flowstate-app/flowstate/store/cache"
)

func TestWorkspacePreferencesStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	workspaceID := "ws-1"
	prefs, err := ts.GetWorkspacePreferences(ctx, &store.FindWorkspacePreferences{WorkspaceID: &workspaceID})
	require.NoError(t, err)
	require.Nil(t, prefs)

	upserted, err := ts.UpsertWorkspacePreferences(ctx, &store.UpsertWorkspacePreferences{
		WorkspaceID:  workspaceID,
		WeekdayStart: "08:00",
		WeekdayEnd:   "17:00",
		WeekendStart: "10:00",
		WeekendEnd:   "14:00",
		Timezone:     "Asia/Kolkata",
	})
	require.NoError(t, err)
	require.Equal(t, "08:00", upserted.WeekdayStart)
	require.NotZero(t, upserted.CreatedTs)

	// The earlier miss must not shadow the new row.
	prefs, err = ts.GetWorkspacePreferences(ctx, &store.FindWorkspacePreferences{WorkspaceID: &workspaceID})
	require.NoError(t, err)
	require.NotNil(t, prefs)
	require.Equal(t, "17:00", prefs.WeekdayEnd)

	_, err = ts.UpsertWorkspacePreferences(ctx, &store.UpsertWorkspacePreferences{
		WorkspaceID:  workspaceID,
		WeekdayStart: "07:00",
		WeekdayEnd:   "15:00",
		WeekendStart: "10:00",
		WeekendEnd:   "14:00",
		Timezone:     "Asia/Kolkata",
	})
	require.NoError(t, err)
	prefs, err = ts.GetWorkspacePreferences(ctx, &store.FindWorkspacePreferences{WorkspaceID: &workspaceID})
	require.NoError(t, err)
	require.Equal(t, "07:00", prefs.WeekdayStart)
	require.Equal(t, upserted.CreatedTs, prefs.CreatedTs)
}

func TestWorkspacePreferencesStore_SharedRedisTier(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	newRedis := func() cache.RedisCacheInterface {
		config := cache.DefaultRedisConfig()
		config.URL = "redis://" + mr.Addr()
		rc, err := cache.NewRedisCache(config)
		require.NoError(t, err)
		return rc
	}

	writer := NewTestingStoreWithCache(ctx, t, newRedis())
	reader := NewTestingStoreWithCache(ctx, t, newRedis())

	workspaceID := "ws-shared"
	_, err := writer.UpsertWorkspacePreferences(ctx, &store.UpsertWorkspacePreferences{
		WorkspaceID:  workspaceID,
		WeekdayStart: "06:00",
		WeekdayEnd:   "14:00",
		WeekendStart: "09:00",
		WeekendEnd:   "12:00",
		Timezone:     "Asia/Kolkata",
	})
	require.NoError(t, err)

	// With sqlite each store owns its database, so the reader can only see
	// the row through Redis.
	if getDriverFromEnv() == "sqlite" {
		prefs, err := reader.GetWorkspacePreferences(ctx, &store.FindWorkspacePreferences{WorkspaceID: &workspaceID})
		require.NoError(t, err)
		require.NotNil(t, prefs)
		require.Equal(t, "06:00", prefs.WeekdayStart)
	}
	require.True(t, mr.Exists("flowstate:workspace_preferences:ws-shared"))
}
