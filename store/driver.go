package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Dialect names the SQL dialect; it selects the migration directory.
	Dialect() string
	IsInitialized(ctx context.Context) (bool, error)

	// Task model related methods.
	CreateTask(ctx context.Context, create *Task) (*Task, error)
	ListTasks(ctx context.Context, find *FindTask) ([]*Task, error)
	UpdateTask(ctx context.Context, update *UpdateTask) (*Task, error)

	// WorkspacePreferences model related methods.
	UpsertWorkspacePreferences(ctx context.Context, upsert *UpsertWorkspacePreferences) (*WorkspacePreferences, error)
	GetWorkspacePreferences(ctx context.Context, find *FindWorkspacePreferences) (*WorkspacePreferences, error)
}
