package schedule

import (
	"fmt"
	"time"

	"github.com/flowstate-app/flowstate/server/timezone"
)

// workHours holds parsed WorkPreferences as minutes after local midnight.
type workHours struct {
	weekdayStart, weekdayEnd int
	weekendStart, weekendEnd int
}

func parseWorkHours(p WorkPreferences) (workHours, error) {
	var (
		h   workHours
		err error
	)
	fields := []struct {
		name  string
		value string
		dst   *int
	}{
		{"weekdayStart", p.WeekdayStart, &h.weekdayStart},
		{"weekdayEnd", p.WeekdayEnd, &h.weekdayEnd},
		{"weekendStart", p.WeekendStart, &h.weekendStart},
		{"weekendEnd", p.WeekendEnd, &h.weekendEnd},
	}
	for _, f := range fields {
		if *f.dst, err = timezone.ParseClock(f.value); err != nil {
			return workHours{}, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, f.name, err)
		}
	}
	if h.weekdayStart > h.weekdayEnd {
		return workHours{}, fmt.Errorf("%w: weekday window %s-%s is inverted", ErrInvalidArgument, p.WeekdayStart, p.WeekdayEnd)
	}
	if h.weekendStart > h.weekendEnd {
		return workHours{}, fmt.Errorf("%w: weekend window %s-%s is inverted", ErrInvalidArgument, p.WeekendStart, p.WeekendEnd)
	}
	return h, nil
}

// windowFor returns the work window of the IST day containing day.
// ok is false when the window is empty or inverted.
func (h workHours) windowFor(day time.Time) (start, end time.Time, ok bool) {
	startMin, endMin := h.weekdayStart, h.weekdayEnd
	if timezone.IsWeekend(day) {
		startMin, endMin = h.weekendStart, h.weekendEnd
	}
	if startMin >= endMin {
		return time.Time{}, time.Time{}, false
	}
	return timezone.AtClock(day, startMin), timezone.AtClock(day, endMin), true
}

// overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap.
func overlaps(a, b TimeInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func conflictsWithAny(slot TimeInterval, blocks []TimeInterval) bool {
	for _, b := range blocks {
		if overlaps(slot, b) {
			return true
		}
	}
	return false
}
