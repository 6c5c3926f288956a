package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/flowstate-app/flowstate/plugin/ai"
	apperrors "github.com/flowstate-app/flowstate/server/internal/errors"
	"github.com/flowstate-app/flowstate/server/service/schedule"
	"github.com/flowstate-app/flowstate/server/timezone"
	"github.com/flowstate-app/flowstate/store"
)

const maxTitleLength = 200

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID             int32      `json:"id"`
	UID            string     `json:"uid"`
	Title          string     `json:"title"`
	Notes          string     `json:"notes,omitempty"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	Context        string     `json:"context,omitempty"`
	EstimateMins   int32      `json:"estimateMins"`
	ScheduledStart *time.Time `json:"scheduledStart,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduledEnd,omitempty"`
	// Scheduled is the window in IST, e.g. "2026-03-02 09:00 - 10:00".
	Scheduled      string     `json:"scheduled,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func convertTaskFromStore(task *store.Task) *TaskResponse {
	resp := &TaskResponse{
		ID:           task.ID,
		UID:          task.UID,
		Title:        task.Title,
		Notes:        task.Notes,
		Status:       string(task.Status),
		Priority:     task.Priority,
		Context:      task.Context,
		EstimateMins: task.EstimateMins,
		CreatedAt:    time.Unix(task.CreatedTs, 0).UTC(),
		UpdatedAt:    time.Unix(task.UpdatedTs, 0).UTC(),
	}
	if start, end, ok := task.ScheduledWindow(); ok {
		start, end = start.UTC(), end.UTC()
		resp.ScheduledStart, resp.ScheduledEnd = &start, &end
		resp.Scheduled = timezone.FormatScheduleTime(start, end)
	}
	return resp
}

// ListTasksResponse is the response of GET /api/tasks.
type ListTasksResponse struct {
	Success bool            `json:"success"`
	Tasks   []*TaskResponse `json:"tasks"`
}

// ListTasks lists the active tasks of the caller's workspace.
// GET /api/tasks
func (s *APIV1Service) ListTasks(c echo.Context) error {
	identity, err := workspaceFrom(c)
	if err != nil {
		return err
	}

	normal := store.Normal
	tasks, err := s.Store.ListTasks(c.Request().Context(), &store.FindTask{
		WorkspaceID: &identity.WorkspaceID,
		RowStatus:   &normal,
	})
	if err != nil {
		return apperrors.Internal("failed to list tasks", err)
	}

	resp := ListTasksResponse{Success: true, Tasks: make([]*TaskResponse, 0, len(tasks))}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, convertTaskFromStore(task))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title        string `json:"title"`
	Notes        string `json:"notes"`
	Priority     string `json:"priority"`
	Context      string `json:"context"`
	EstimateMins int32  `json:"estimateMins"`
}

// TaskEnvelope wraps a single task.
type TaskEnvelope struct {
	Success bool          `json:"success"`
	Task    *TaskResponse `json:"task"`
}

// CreateTask creates an unscheduled task.
// POST /api/tasks
func (s *APIV1Service) CreateTask(c echo.Context) error {
	identity, err := workspaceFrom(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return apperrors.InvalidArgument("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return apperrors.InvalidArgument("title is too long")
	}
	priority, err := schedule.ParsePriority(req.Priority)
	if err != nil {
		return apperrors.InvalidArgument("priority must be one of LOW, MEDIUM, HIGH, URGENT")
	}
	estimate := req.EstimateMins
	if estimate == 0 {
		estimate = ai.DefaultEstimateMins
	}
	if estimate < 0 {
		return apperrors.InvalidArgument("estimateMins must be positive")
	}

	task, err := s.Store.CreateTask(c.Request().Context(), &store.Task{
		UID:          shortuuid.New(),
		WorkspaceID:  identity.WorkspaceID,
		CreatorID:    identity.UserID,
		Title:        title,
		Notes:        strings.TrimSpace(req.Notes),
		Status:       store.TaskStatusTodo,
		Priority:     string(priority),
		Context:      strings.TrimSpace(req.Context),
		EstimateMins: estimate,
	})
	if err != nil {
		return apperrors.Internal("failed to create task", err)
	}
	return c.JSON(http.StatusCreated, TaskEnvelope{Success: true, Task: convertTaskFromStore(task)})
}

// DeleteTask archives a task.
// DELETE /api/tasks/:id
func (s *APIV1Service) DeleteTask(c echo.Context) error {
	identity, err := workspaceFrom(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return apperrors.InvalidArgument("invalid task id")
	}
	taskID := int32(id)

	ctx := c.Request().Context()
	normal := store.Normal
	task, err := s.Store.GetTask(ctx, &store.FindTask{
		ID:          &taskID,
		WorkspaceID: &identity.WorkspaceID,
		RowStatus:   &normal,
	})
	if err != nil {
		return apperrors.Internal("failed to get task", err)
	}
	if task == nil {
		return apperrors.NotFound("task not found")
	}

	archived := store.Archived
	updatedTs := time.Now().Unix()
	if _, err := s.Store.UpdateTask(ctx, &store.UpdateTask{
		ID:        task.ID,
		RowStatus: &archived,
		UpdatedTs: &updatedTs,
	}); err != nil {
		return apperrors.Internal("failed to archive task", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
