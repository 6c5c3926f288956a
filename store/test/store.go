package test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowstate-app/flowstate/internal/profile"
	"github.com/flowstate-app/flowstate/store"
	"github.com/flowstate-app/flowstate/store/cache"
	"github.com/flowstate-app/flowstate/store/db"
)

// NewTestingStore returns a migrated store for the driver named by DRIVER
// (sqlite by default).
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	return NewTestingStoreWithCache(ctx, t, nil)
}

// NewTestingStoreWithCache is NewTestingStore with an explicit L2 cache tier.
func NewTestingStoreWithCache(ctx context.Context, t *testing.T, l2 cache.RedisCacheInterface) *store.Store {
	t.Helper()

	prof := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(prof)
	require.NoError(t, err, "failed to create db driver")

	st := store.New(dbDriver, prof, l2)
	require.NoError(t, st.Migrate(ctx), "failed to migrate db")
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func getTestingProfile(t *testing.T) *profile.Profile {
	driver := getDriverFromEnv()
	prof := &profile.Profile{
		Mode:    "dev",
		Driver:  driver,
		Version: "test",
	}
	switch driver {
	case "postgres":
		prof.DSN = GetPostgresDSN(t)
	default:
		prof.DSN = ":memory:"
	}
	return prof
}

func getDriverFromEnv() string {
	driver := os.Getenv("DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}
