package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flowstate-app/flowstate/server/timezone"
	"github.com/flowstate-app/flowstate/store"
)

// Service defines the scheduling operations exposed to the API layer.
// It resolves the inputs of the proposal engine from storage and persists
// accepted proposals.
type Service interface {
	// ProposeForWorkspace returns up to MaxProposals ranked time blocks for a task.
	// An empty slice means no slot fits the horizon and is not an error.
	ProposeForWorkspace(ctx context.Context, workspaceID string, opts *ProposeOptions) ([]*ProposedBlock, error)

	// AcceptProposal stores [start, end) as the scheduled window of a task.
	// It fails with ErrScheduleConflict when the window overlaps another scheduled task.
	AcceptProposal(ctx context.Context, workspaceID string, taskID int32, start, end time.Time) (*store.Task, error)

	// GetWorkPreferences returns the effective work hours of a workspace,
	// falling back to DefaultWorkPreferences.
	GetWorkPreferences(ctx context.Context, workspaceID string) (*WorkPreferences, error)
}

// Priority is the urgency of the task being scheduled.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ParsePriority normalises a priority name. Empty input means MEDIUM.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidArgument, s)
	}
}

// WorkPreferences are the work-hour windows per day type, as "HH:MM" in IST.
type WorkPreferences struct {
	WeekdayStart string `json:"weekdayStart"`
	WeekdayEnd   string `json:"weekdayEnd"`
	WeekendStart string `json:"weekendStart"`
	WeekendEnd   string `json:"weekendEnd"`
}

// Validate checks that every clock parses and no window is inverted.
func (p WorkPreferences) Validate() error {
	_, err := parseWorkHours(p)
	return err
}

// Normalize validates p and returns it with every clock zero-padded, so
// "9:15" is stored as "09:15".
func (p WorkPreferences) Normalize() (WorkPreferences, error) {
	h, err := parseWorkHours(p)
	if err != nil {
		return WorkPreferences{}, err
	}
	return WorkPreferences{
		WeekdayStart: timezone.FormatClock(h.weekdayStart),
		WeekdayEnd:   timezone.FormatClock(h.weekdayEnd),
		WeekendStart: timezone.FormatClock(h.weekendStart),
		WeekendEnd:   timezone.FormatClock(h.weekendEnd),
	}, nil
}

// TimeInterval is a half-open interval [Start, End).
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ProposalRequest is the complete input of ProposeTimeBlocks.
type ProposalRequest struct {
	Now               time.Time
	EstimateMins      int
	Priority          Priority
	PreferredContexts []string
	ExistingBlocks    []TimeInterval
	Prefs             WorkPreferences
}

// ProposedBlock is a ranked candidate slot.
type ProposedBlock struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Rationale string    `json:"rationale"`
	Score     int       `json:"score"`
}

// ProposeOptions describes the task a workspace wants to schedule.
type ProposeOptions struct {
	EstimateMins int
	Priority     string
	Contexts     []string
	// Exclude lists task IDs whose scheduled windows are ignored,
	// typically the task being rescheduled.
	Exclude []int32
	// Now overrides the service clock when set.
	Now time.Time
}
