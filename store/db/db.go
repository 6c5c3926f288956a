package db

import (
	"github.com/pkg/errors"

	"github.com/flowstate-app/flowstate/internal/profile"
	"github.com/flowstate-app/flowstate/store"
	"github.com/flowstate-app/flowstate/store/db/postgres"
	"github.com/flowstate-app/flowstate/store/db/sqlite"
)

// ============================================================================
// DATABASE SUPPORT POLICY
// ============================================================================
// PostgreSQL: production (the managed Supabase database).
// SQLite: local development and tests.
// ============================================================================

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'postgres' and 'sqlite' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
