package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/flowstate-app/flowstate/store"
)

const taskColumns = `id, uid, workspace_id, creator_id, row_status, created_ts, updated_ts,
	title, notes, status, priority, context, estimate_mins,
	scheduled_start_ts, scheduled_end_ts`

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	fields := []string{
		"uid", "workspace_id", "creator_id", "title", "notes",
		"status", "priority", "context", "estimate_mins",
		"scheduled_start_ts", "scheduled_end_ts",
	}
	args := []any{
		create.UID, create.WorkspaceID, create.CreatorID, create.Title, create.Notes,
		create.Status, create.Priority, create.Context, create.EstimateMins,
		create.ScheduledStartTs, create.ScheduledEndTs,
	}

	stmt := `INSERT INTO task (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING ` + taskColumns

	task, err := scanTask(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (d *DB) ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "task.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "task.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.WorkspaceID; v != nil {
		where, args = append(where, "task.workspace_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "task.row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if find.OnlyScheduled {
		where = append(where, "task.scheduled_start_ts IS NOT NULL AND task.scheduled_end_ts IS NOT NULL")
	}
	// A window [s, e) intersects [from, to) iff s < to AND e > from.
	if v := find.ScheduledTo; v != nil {
		where, args = append(where, "task.scheduled_start_ts < "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ScheduledFrom; v != nil {
		where, args = append(where, "task.scheduled_end_ts > "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(find.ExcludeIDs) > 0 {
		list := make([]string, 0, len(find.ExcludeIDs))
		for _, id := range find.ExcludeIDs {
			list = append(list, placeholder(len(args)+1))
			args = append(args, id)
		}
		where = append(where, "task.id NOT IN ("+strings.Join(list, ", ")+")")
	}

	query := `SELECT ` + taskColumns + ` FROM task WHERE ` + strings.Join(where, " AND ") + ` ORDER BY task.id ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		list = append(list, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateTask(ctx context.Context, update *store.UpdateTask) (*store.Task, error) {
	set, args := []string{}, []any{}

	updatedTs := time.Now().Unix()
	if update.UpdatedTs != nil {
		updatedTs = *update.UpdatedTs
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, updatedTs)

	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Notes; v != nil {
		set, args = append(set, "notes = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Priority; v != nil {
		set, args = append(set, "priority = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Context; v != nil {
		set, args = append(set, "context = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.EstimateMins; v != nil {
		set, args = append(set, "estimate_mins = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ScheduledStartTs; v != nil {
		set, args = append(set, "scheduled_start_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ScheduledEndTs; v != nil {
		set, args = append(set, "scheduled_end_ts = "+placeholder(len(args)+1)), append(args, *v)
	}

	args = append(args, update.ID)
	stmt := `UPDATE task SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING ` + taskColumns

	task, err := scanTask(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*store.Task, error) {
	var task store.Task
	var scheduledStart, scheduledEnd sql.NullInt64

	if err := row.Scan(
		&task.ID,
		&task.UID,
		&task.WorkspaceID,
		&task.CreatorID,
		&task.RowStatus,
		&task.CreatedTs,
		&task.UpdatedTs,
		&task.Title,
		&task.Notes,
		&task.Status,
		&task.Priority,
		&task.Context,
		&task.EstimateMins,
		&scheduledStart,
		&scheduledEnd,
	); err != nil {
		return nil, err
	}

	if scheduledStart.Valid {
		task.ScheduledStartTs = &scheduledStart.Int64
	}
	if scheduledEnd.Valid {
		task.ScheduledEndTs = &scheduledEnd.Int64
	}
	return &task, nil
}
