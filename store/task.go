package store

import (
	"context"
	"time"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Task is the object representing a task in a workspace.
type Task struct {
	ID          int32
	UID         string
	WorkspaceID string
	CreatorID   string
	RowStatus   RowStatus
	CreatedTs   int64
	UpdatedTs   int64

	Title        string
	Notes        string
	Status       TaskStatus
	Priority     string
	Context      string
	EstimateMins int32

	// ScheduledStartTs and ScheduledEndTs hold the accepted time block, if any.
	ScheduledStartTs *int64
	ScheduledEndTs   *int64
}

// FindTask is the find condition for tasks.
type FindTask struct {
	ID          *int32
	UID         *string
	WorkspaceID *string
	RowStatus   *RowStatus

	// OnlyScheduled restricts the result to tasks with both a scheduled start and end.
	OnlyScheduled bool
	// ScheduledFrom and ScheduledTo select tasks whose scheduled window
	// intersects [ScheduledFrom, ScheduledTo).
	ScheduledFrom *int64
	ScheduledTo   *int64

	ExcludeIDs []int32

	Limit  *int
	Offset *int
}

// UpdateTask is the update request for a task.
type UpdateTask struct {
	ID        int32
	UpdatedTs *int64
	RowStatus *RowStatus

	Title        *string
	Notes        *string
	Status       *TaskStatus
	Priority     *string
	Context      *string
	EstimateMins *int32

	ScheduledStartTs *int64
	ScheduledEndTs   *int64
}

// IsScheduled reports whether the task carries a complete scheduled window.
func (t *Task) IsScheduled() bool {
	return t.ScheduledStartTs != nil && t.ScheduledEndTs != nil
}

// ScheduledWindow returns the scheduled window as instants. ok is false when
// the task is unscheduled.
func (t *Task) ScheduledWindow() (start, end time.Time, ok bool) {
	if !t.IsScheduled() {
		return time.Time{}, time.Time{}, false
	}
	return time.Unix(*t.ScheduledStartTs, 0), time.Unix(*t.ScheduledEndTs, 0), true
}

// CreateTask creates a new task.
func (s *Store) CreateTask(ctx context.Context, create *Task) (*Task, error) {
	return s.driver.CreateTask(ctx, create)
}

// ListTasks lists tasks with filter.
func (s *Store) ListTasks(ctx context.Context, find *FindTask) ([]*Task, error) {
	return s.driver.ListTasks(ctx, find)
}

// GetTask gets a single task, or nil if none matches.
func (s *Store) GetTask(ctx context.Context, find *FindTask) (*Task, error) {
	list, err := s.driver.ListTasks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateTask updates a task.
func (s *Store) UpdateTask(ctx context.Context, update *UpdateTask) (*Task, error) {
	return s.driver.UpdateTask(ctx, update)
}
