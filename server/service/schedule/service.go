// Package schedule proposes and books time blocks for tasks.
//
// ProposeTimeBlocks is the pure proposal engine: a greedy scan over a bounded
// calendar horizon that scores conflict-free slots inside the workspace work
// hours. The Service resolves the engine inputs from the store and persists
// accepted proposals.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flowstate-app/flowstate/server/internal/observability"
	"github.com/flowstate-app/flowstate/store"
)

// Errors that can be checked with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed requests.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrScheduleConflict is returned when a window overlaps another scheduled task.
	ErrScheduleConflict = errors.New("schedule conflicts detected")

	// ErrTaskNotFound is returned when the task does not exist in the workspace.
	ErrTaskNotFound = errors.New("task not found")
)

// Store is the interface for store operations needed by the schedule service.
type Store interface {
	GetWorkspacePreferences(ctx context.Context, find *store.FindWorkspacePreferences) (*store.WorkspacePreferences, error)
	ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error)
	GetTask(ctx context.Context, find *store.FindTask) (*store.Task, error)
	UpdateTask(ctx context.Context, update *store.UpdateTask) (*store.Task, error)
}

type service struct {
	store   Store
	metrics *observability.Metrics
	now     func() time.Time

	// acceptLocks maps a workspace ID to the *sync.Mutex serialising its
	// accepts within this process.
	acceptLocks sync.Map
}

// NewService creates a new schedule service.
func NewService(store Store, metrics *observability.Metrics) Service {
	if metrics == nil {
		metrics = observability.GlobalMetrics()
	}
	return &service{store: store, metrics: metrics, now: time.Now}
}

func (s *service) ProposeForWorkspace(ctx context.Context, workspaceID string, opts *ProposeOptions) (proposals []*ProposedBlock, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordRequest(observability.OperationPropose, time.Since(start), err)
		if err == nil {
			s.metrics.RecordProposals(len(proposals))
		}
	}()

	if workspaceID == "" {
		return nil, fmt.Errorf("%w: workspace id is required", ErrInvalidArgument)
	}
	if opts == nil {
		return nil, fmt.Errorf("%w: options are required", ErrInvalidArgument)
	}
	priority, err := ParsePriority(opts.Priority)
	if err != nil {
		return nil, err
	}
	if opts.EstimateMins <= 0 || opts.EstimateMins > MaxEstimateMins {
		return nil, fmt.Errorf("%w: estimateMins must be between 1 and %d, got %d", ErrInvalidArgument, MaxEstimateMins, opts.EstimateMins)
	}

	now := opts.Now
	if now.IsZero() {
		now = s.now()
	}
	horizonEnd := now.Add(MaxDays * 24 * time.Hour)

	var (
		prefs  *WorkPreferences
		blocks []TimeInterval
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prefs = s.loadPreferences(gctx, workspaceID)
		return nil
	})
	g.Go(func() error {
		var err error
		blocks, err = s.loadExistingBlocks(gctx, workspaceID, now, horizonEnd, opts.Exclude)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	proposals, err = ProposeTimeBlocks(&ProposalRequest{
		Now:               now,
		EstimateMins:      opts.EstimateMins,
		Priority:          priority,
		PreferredContexts: opts.Contexts,
		ExistingBlocks:    blocks,
		Prefs:             *prefs,
	})
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Debug("time blocks proposed",
		"workspace_id", workspaceID,
		"existing_blocks", len(blocks),
		"proposals", len(proposals),
	)
	return proposals, nil
}

func (s *service) GetWorkPreferences(ctx context.Context, workspaceID string) (*WorkPreferences, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("%w: workspace id is required", ErrInvalidArgument)
	}
	return s.loadPreferences(ctx, workspaceID), nil
}

// loadPreferences never fails: a missing record, a read error or an invalid
// stored record all fall back to DefaultWorkPreferences.
func (s *service) loadPreferences(ctx context.Context, workspaceID string) *WorkPreferences {
	defaults := DefaultWorkPreferences
	logger := observability.LoggerFromContext(ctx)

	record, err := s.store.GetWorkspacePreferences(ctx, &store.FindWorkspacePreferences{WorkspaceID: &workspaceID})
	if err != nil {
		logger.Warn("failed to load workspace preferences, using defaults",
			"workspace_id", workspaceID,
			"error", err,
		)
		return &defaults
	}
	if record == nil {
		return &defaults
	}

	prefs := &WorkPreferences{
		WeekdayStart: record.WeekdayStart,
		WeekdayEnd:   record.WeekdayEnd,
		WeekendStart: record.WeekendStart,
		WeekendEnd:   record.WeekendEnd,
	}
	if err := prefs.Validate(); err != nil {
		logger.Warn("stored workspace preferences are invalid, using defaults",
			"workspace_id", workspaceID,
			"error", err,
		)
		return &defaults
	}
	return prefs
}

// loadExistingBlocks returns the scheduled windows of active tasks that
// intersect [from, to).
func (s *service) loadExistingBlocks(ctx context.Context, workspaceID string, from, to time.Time, exclude []int32) ([]TimeInterval, error) {
	normal := store.Normal
	fromTs, toTs := from.Unix(), to.Unix()
	tasks, err := s.store.ListTasks(ctx, &store.FindTask{
		WorkspaceID:   &workspaceID,
		RowStatus:     &normal,
		OnlyScheduled: true,
		ScheduledFrom: &fromTs,
		ScheduledTo:   &toTs,
		ExcludeIDs:    exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled tasks: %w", err)
	}

	blocks := make([]TimeInterval, 0, len(tasks))
	for _, task := range tasks {
		start, end, ok := task.ScheduledWindow()
		if !ok {
			continue
		}
		if !start.Before(end) {
			observability.LoggerFromContext(ctx).Warn("skipping task with inverted schedule",
				"workspace_id", workspaceID,
				"task_id", task.ID,
			)
			continue
		}
		blocks = append(blocks, TimeInterval{Start: start, End: end})
	}
	return blocks, nil
}

func (s *service) AcceptProposal(ctx context.Context, workspaceID string, taskID int32, start, end time.Time) (task *store.Task, err error) {
	began := time.Now()
	defer func() {
		s.metrics.RecordRequest(observability.OperationAccept, time.Since(began), err)
	}()

	if workspaceID == "" {
		return nil, fmt.Errorf("%w: workspace id is required", ErrInvalidArgument)
	}
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidArgument)
	}

	// The conflict check and the update are two store calls. Accepts of one
	// workspace are serialised per process; separate instances can still race.
	unlock := s.lockWorkspace(workspaceID)
	defer unlock()

	normal := store.Normal
	existing, err := s.store.GetTask(ctx, &store.FindTask{
		ID:          &taskID,
		WorkspaceID: &workspaceID,
		RowStatus:   &normal,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}

	startTs, endTs := start.Unix(), end.Unix()
	conflicts, err := s.store.ListTasks(ctx, &store.FindTask{
		WorkspaceID:   &workspaceID,
		RowStatus:     &normal,
		OnlyScheduled: true,
		ScheduledFrom: &startTs,
		ScheduledTo:   &endTs,
		ExcludeIDs:    []int32{taskID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	proposed := TimeInterval{Start: start, End: end}
	for _, other := range conflicts {
		otherStart, otherEnd, ok := other.ScheduledWindow()
		if ok && overlaps(proposed, TimeInterval{Start: otherStart, End: otherEnd}) {
			return nil, fmt.Errorf("%w: overlaps task %d", ErrScheduleConflict, other.ID)
		}
	}

	updated, err := s.store.UpdateTask(ctx, &store.UpdateTask{
		ID:               taskID,
		ScheduledStartTs: &startTs,
		ScheduledEndTs:   &endTs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}

	observability.LoggerFromContext(ctx).Info("proposal accepted",
		"workspace_id", workspaceID,
		"task_id", taskID,
		"start", start.UTC(),
		"end", end.UTC(),
	)
	return updated, nil
}

func (s *service) lockWorkspace(workspaceID string) func() {
	value, _ := s.acceptLocks.LoadOrStore(workspaceID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
