package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildRationale(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		day      int
		priority Priority
		contexts []string
		want     string
	}{
		{
			name:     "deep work urgent today",
			start:    ist(2, 10, 0),
			priority: PriorityUrgent,
			contexts: []string{ContextDeepWork},
			want:     "Mon 10:00 · Today · Fits deep work window · Urgent priority",
		},
		{
			name:     "admin high tomorrow",
			start:    ist(3, 14, 30),
			day:      1,
			priority: PriorityHigh,
			contexts: []string{ContextAdmin},
			want:     "Tue 14:30 · Tomorrow · Good for admin tasks · High priority",
		},
		{
			name:     "no notes",
			start:    ist(5, 16, 0),
			day:      3,
			priority: PriorityMedium,
			want:     "Thu 16:00 · In 3 days",
		},
		{
			name:     "deep work afternoon has no note",
			start:    ist(2, 15, 0),
			priority: PriorityLow,
			contexts: []string{ContextDeepWork},
			want:     "Mon 15:00 · Today",
		},
		{
			name:     "deep work early falls back to morning",
			start:    ist(2, 9, 30),
			priority: PriorityLow,
			contexts: []string{ContextDeepWork},
			want:     "Mon 09:30 · Today · Morning productivity",
		},
		{
			name:     "utc input rendered in ist",
			start:    time.Date(2026, 3, 7, 4, 30, 0, 0, time.UTC),
			day:      5,
			priority: PriorityMedium,
			want:     "Sat 10:00 · In 5 days · Morning productivity",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildRationale(tt.start, tt.day, tt.priority, normalizeContexts(tt.contexts))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelativeDay(t *testing.T) {
	assert.Equal(t, "Today", relativeDay(0))
	assert.Equal(t, "Tomorrow", relativeDay(1))
	assert.Equal(t, "In 2 days", relativeDay(2))
	assert.Equal(t, "In 9 days", relativeDay(9))
}
