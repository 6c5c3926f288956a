// Package timezone provides the civil-time helpers used by FlowState.
//
// All work-hour arithmetic happens in Indian Standard Time, which is modelled
// as a constant +05:30 shift from UTC. IST observes no daylight saving, so a
// fixed zone is exact and no timezone database is consulted.
package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// ISTOffset is the constant distance between IST and UTC.
	ISTOffset = 5*time.Hour + 30*time.Minute

	// MinutesPerDay bounds a minute-of-day value.
	MinutesPerDay = 24 * 60
)

// IST is the fixed-offset location for Indian Standard Time.
var IST = time.FixedZone("IST", int(ISTOffset/time.Second))

// ToLocal converts an instant to IST wall-clock time.
func ToLocal(t time.Time) time.Time {
	return t.In(IST)
}

// StartOfLocalDay returns local midnight of the IST day containing t.
func StartOfLocalDay(t time.Time) time.Time {
	local := ToLocal(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, IST)
}

// AddLocalDays returns local midnight n calendar days after the IST day containing t.
func AddLocalDays(t time.Time, n int) time.Time {
	start := StartOfLocalDay(t)
	return time.Date(start.Year(), start.Month(), start.Day()+n, 0, 0, 0, 0, IST)
}

// AtClock returns the instant at the given minute-of-day on the IST day containing day.
func AtClock(day time.Time, minuteOfDay int) time.Time {
	return StartOfLocalDay(day).Add(time.Duration(minuteOfDay) * time.Minute)
}

// IsWeekend reports whether t falls on a Saturday or Sunday in IST.
func IsWeekend(t time.Time) bool {
	switch ToLocal(t).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// ParseClock parses a 24h "HH:MM" string into minutes after midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || len(hh) == 0 || len(hh) > 2 {
		return 0, fmt.Errorf("invalid clock %q: bad hour", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, fmt.Errorf("invalid clock %q: bad minute", s)
	}
	if hour < 0 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid clock %q: out of range", s)
	}
	total := hour*60 + minute
	if total > MinutesPerDay {
		return 0, fmt.Errorf("invalid clock %q: out of range", s)
	}
	return total, nil
}

// FormatClock renders minutes after midnight as zero-padded "HH:MM".
func FormatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

// FormatScheduleTime formats a scheduled window for display.
// Rules:
//   - Same day: "2006-01-02 15:04 - 16:00"
//   - Spanning days: "2006-01-02 15:04 - 2006-01-03 09:00"
func FormatScheduleTime(start, end time.Time) string {
	ls, le := ToLocal(start), ToLocal(end)
	if ls.YearDay() == le.YearDay() && ls.Year() == le.Year() {
		return fmt.Sprintf("%s - %s", ls.Format("2006-01-02 15:04"), le.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", ls.Format("2006-01-02 15:04"), le.Format("2006-01-02 15:04"))
}
