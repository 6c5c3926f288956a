package schedule

import (
	"time"

	"github.com/flowstate-app/flowstate/server/timezone"
)

// Search horizon and ranking limits of the proposal engine.
const (
	// MaxDays is the hard limit of calendar days scanned, today included.
	MaxDays = 10

	// SearchDays is the minimum number of days scanned before the search may stop.
	SearchDays = 7

	// MinProposals is the candidate count that allows the search to stop after SearchDays.
	MinProposals = 3

	// MaxProposals is the number of proposals returned.
	MaxProposals = 3

	// SlotStride is the distance between consecutive candidate start times.
	SlotStride = 15 * time.Minute

	// BaseScore is the score every candidate starts from.
	BaseScore = 50

	// WeekendPenalty is subtracted from candidates on Saturday or Sunday.
	WeekendPenalty = 10

	// MaxEstimateMins is the longest accepted estimate. No work window is
	// longer than a day.
	MaxEstimateMins = timezone.MinutesPerDay
)

// Known task contexts that influence scoring.
const (
	ContextDeepWork = "Deep Work"
	ContextAdmin    = "Admin"
)

// DefaultWorkPreferences applies when a workspace has no stored preferences.
var DefaultWorkPreferences = WorkPreferences{
	WeekdayStart: "09:00",
	WeekdayEnd:   "18:00",
	WeekendStart: "10:00",
	WeekendEnd:   "16:00",
}
