package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"path"

	"github.com/pkg/errors"
)

// Migration Files:
// - Location: store/migration/{dialect}/LATEST.sql
// - LATEST.sql holds the full, idempotent schema and is applied when the
//   database has not been initialized yet.

//go:embed migration
var migrationFS embed.FS

// LatestSchemaFileName is the name of the latest schema file.
const LatestSchemaFileName = "LATEST.sql"

// Migrate applies the latest schema to an uninitialized database.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		slog.Debug("database already initialized, skipping schema", "dialect", s.driver.Dialect())
		return nil
	}

	schema, err := readLatestSchema(s.driver.Dialect())
	if err != nil {
		return err
	}

	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return errors.Wrapf(err, "failed to apply %s schema", s.driver.Dialect())
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit schema")
	}

	slog.Info("database schema applied", "dialect", s.driver.Dialect())
	return nil
}

func readLatestSchema(dialect string) (string, error) {
	file := path.Join("migration", dialect, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("no schema for dialect %q: %w", dialect, err)
	}
	return string(buf), nil
}
