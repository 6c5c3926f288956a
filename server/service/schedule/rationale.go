package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/flowstate-app/flowstate/server/timezone"
)

const rationaleSeparator = " · "

// buildRationale renders e.g. "Mon 10:00 · Today · Fits deep work window · Urgent priority".
func buildRationale(start time.Time, dayOffset int, priority Priority, contexts contextSet) string {
	local := timezone.ToLocal(start)
	parts := []string{
		local.Format("Mon 15:04"),
		relativeDay(dayOffset),
	}
	if note := contextNote(local.Hour(), contexts); note != "" {
		parts = append(parts, note)
	}
	if note := priorityNote(priority); note != "" {
		parts = append(parts, note)
	}
	return strings.Join(parts, rationaleSeparator)
}

func relativeDay(dayOffset int) string {
	switch dayOffset {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("In %d days", dayOffset)
	}
}

// contextNote returns the first matching note, or "".
func contextNote(hour int, contexts contextSet) string {
	switch {
	case contexts.has(ContextDeepWork) && hour >= 10 && hour < 13:
		return "Fits deep work window"
	case contexts.has(ContextAdmin) && hour >= 9 && hour < 17:
		return "Good for admin tasks"
	case hour >= 9 && hour < 12:
		return "Morning productivity"
	default:
		return ""
	}
}

func priorityNote(priority Priority) string {
	switch priority {
	case PriorityUrgent:
		return "Urgent priority"
	case PriorityHigh:
		return "High priority"
	default:
		return ""
	}
}
