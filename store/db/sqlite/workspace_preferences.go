package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flowstate-app/flowstate/store"
)

func (d *DB) UpsertWorkspacePreferences(ctx context.Context, upsert *store.UpsertWorkspacePreferences) (*store.WorkspacePreferences, error) {
	now := time.Now().Unix()

	stmt := `INSERT INTO workspace_preferences (workspace_id, weekday_start, weekday_end, weekend_start, weekend_end, timezone, created_ts, updated_ts)
		VALUES (` + placeholders(8) + `)
		ON CONFLICT (workspace_id) DO UPDATE SET
			weekday_start = EXCLUDED.weekday_start,
			weekday_end = EXCLUDED.weekday_end,
			weekend_start = EXCLUDED.weekend_start,
			weekend_end = EXCLUDED.weekend_end,
			timezone = EXCLUDED.timezone,
			updated_ts = EXCLUDED.updated_ts
		RETURNING workspace_id, weekday_start, weekday_end, weekend_start, weekend_end, timezone, created_ts, updated_ts`

	result := &store.WorkspacePreferences{}
	err := d.db.QueryRowContext(ctx, stmt,
		upsert.WorkspaceID, upsert.WeekdayStart, upsert.WeekdayEnd,
		upsert.WeekendStart, upsert.WeekendEnd, upsert.Timezone, now, now,
	).Scan(
		&result.WorkspaceID,
		&result.WeekdayStart,
		&result.WeekdayEnd,
		&result.WeekendStart,
		&result.WeekendEnd,
		&result.Timezone,
		&result.CreatedTs,
		&result.UpdatedTs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert workspace_preferences: %w", err)
	}

	return result, nil
}

func (d *DB) GetWorkspacePreferences(ctx context.Context, find *store.FindWorkspacePreferences) (*store.WorkspacePreferences, error) {
	if find.WorkspaceID == nil {
		return nil, fmt.Errorf("workspace_id is required")
	}

	query := `SELECT workspace_id, weekday_start, weekday_end, weekend_start, weekend_end, timezone, created_ts, updated_ts
		FROM workspace_preferences WHERE workspace_id = ` + placeholder(1)

	result := &store.WorkspacePreferences{}
	err := d.db.QueryRowContext(ctx, query, *find.WorkspaceID).Scan(
		&result.WorkspaceID,
		&result.WeekdayStart,
		&result.WeekdayEnd,
		&result.WeekendStart,
		&result.WeekendEnd,
		&result.Timezone,
		&result.CreatedTs,
		&result.UpdatedTs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get workspace_preferences: %w", err)
	}

	return result, nil
}
