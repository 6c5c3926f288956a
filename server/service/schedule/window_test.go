package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	slot := TimeInterval{Start: ist(2, 10, 0), End: ist(2, 11, 0)}

	tests := []struct {
		name  string
		block TimeInterval
		want  bool
	}{
		{"slot inside block", TimeInterval{Start: ist(2, 9, 0), End: ist(2, 12, 0)}, true},
		{"block inside slot", TimeInterval{Start: ist(2, 10, 15), End: ist(2, 10, 30)}, true},
		{"overlaps start edge", TimeInterval{Start: ist(2, 9, 30), End: ist(2, 10, 1)}, true},
		{"overlaps end edge", TimeInterval{Start: ist(2, 10, 59), End: ist(2, 12, 0)}, true},
		{"identical", slot, true},
		{"touches start", TimeInterval{Start: ist(2, 9, 0), End: ist(2, 10, 0)}, false},
		{"touches end", TimeInterval{Start: ist(2, 11, 0), End: ist(2, 12, 0)}, false},
		{"disjoint", TimeInterval{Start: ist(3, 10, 0), End: ist(3, 11, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlaps(slot, tt.block))
			assert.Equal(t, tt.want, overlaps(tt.block, slot), "overlap is symmetric")
		})
	}
}

func TestConflictsWithAny(t *testing.T) {
	slot := TimeInterval{Start: ist(2, 10, 0), End: ist(2, 11, 0)}
	assert.False(t, conflictsWithAny(slot, nil))
	assert.True(t, conflictsWithAny(slot, []TimeInterval{
		{Start: ist(2, 8, 0), End: ist(2, 9, 0)},
		{Start: ist(2, 10, 30), End: ist(2, 10, 45)},
	}))
}

func TestWindowFor(t *testing.T) {
	hours, err := parseWorkHours(DefaultWorkPreferences)
	require.NoError(t, err)

	start, end, ok := hours.windowFor(ist(2, 23, 0))
	require.True(t, ok)
	assert.True(t, start.Equal(ist(2, 9, 0)))
	assert.True(t, end.Equal(ist(2, 18, 0)))

	start, end, ok = hours.windowFor(ist(8, 7, 0))
	require.True(t, ok, "sunday uses the weekend window")
	assert.True(t, start.Equal(ist(8, 10, 0)))
	assert.True(t, end.Equal(ist(8, 16, 0)))

	// 20:00 UTC on Friday is already Saturday in IST.
	start, _, ok = hours.windowFor(time.Date(2026, 3, 6, 20, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.True(t, start.Equal(ist(7, 10, 0)))
}

func TestWindowFor_EmptyWindow(t *testing.T) {
	hours := workHours{weekdayStart: 600, weekdayEnd: 600, weekendStart: 600, weekendEnd: 660}
	_, _, ok := hours.windowFor(ist(2, 12, 0))
	assert.False(t, ok)

	hours = workHours{weekdayStart: 700, weekdayEnd: 600}
	_, _, ok = hours.windowFor(ist(2, 12, 0))
	assert.False(t, ok, "inverted windows yield nothing")
}

func TestWorkPreferences_Validate(t *testing.T) {
	assert.NoError(t, DefaultWorkPreferences.Validate())
	assert.NoError(t, WorkPreferences{WeekdayStart: "00:00", WeekdayEnd: "24:00", WeekendStart: "10:00", WeekendEnd: "10:00"}.Validate())

	err := WorkPreferences{WeekdayStart: "18:00", WeekdayEnd: "09:00", WeekendStart: "10:00", WeekendEnd: "16:00"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "weekday")

	err = WorkPreferences{WeekdayStart: "09:00", WeekdayEnd: "18:00", WeekendStart: "", WeekendEnd: "16:00"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "weekendStart")
}

func TestWorkPreferences_Normalize(t *testing.T) {
	got, err := WorkPreferences{WeekdayStart: "9:15", WeekdayEnd: " 18:00 ", WeekendStart: "0:00", WeekendEnd: "24:00"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, WorkPreferences{WeekdayStart: "09:15", WeekdayEnd: "18:00", WeekendStart: "00:00", WeekendEnd: "24:00"}, got)

	_, err = WorkPreferences{WeekdayStart: "18:00", WeekdayEnd: "9:00", WeekendStart: "10:00", WeekendEnd: "16:00"}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
