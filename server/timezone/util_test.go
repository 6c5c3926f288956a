package timezone

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"morning", "09:00", 540, false},
		{"evening", "18:30", 1110, false},
		{"single digit hour", "9:15", 555, false},
		{"midnight", "00:00", 0, false},
		{"end of day", "24:00", 1440, false},
		{"padded", " 10:00 ", 600, false},
		{"missing colon", "0900", 0, true},
		{"bad minute", "09:7", 0, true},
		{"minute overflow", "09:60", 0, true},
		{"hour overflow", "25:00", 0, true},
		{"past end of day", "24:01", 0, true},
		{"letters", "ab:cd", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{540, "09:00"},
		{555, "09:15"},
		{1110, "18:30"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestToLocal_FixedOffset(t *testing.T) {
	utc := time.Date(2026, 3, 2, 2, 30, 0, 0, time.UTC)
	local := ToLocal(utc)

	if local.Hour() != 8 || local.Minute() != 0 {
		t.Errorf("ToLocal() = %s, want 08:00 IST", local.Format("15:04"))
	}
	_, offset := local.Zone()
	if offset != 19800 {
		t.Errorf("offset = %d seconds, want 19800", offset)
	}
	if !local.Equal(utc) {
		t.Error("ToLocal must not change the instant")
	}
}

func TestStartOfLocalDay_CrossesUTCDate(t *testing.T) {
	// 20:00 UTC on Mar 1 is already 01:30 IST on Mar 2.
	utc := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	start := StartOfLocalDay(utc)

	if start.Day() != 2 || start.Hour() != 0 {
		t.Errorf("StartOfLocalDay() = %s, want 2026-03-02 00:00 IST", start)
	}
	wantUTC := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	if !start.Equal(wantUTC) {
		t.Errorf("StartOfLocalDay() = %s, want %s", start.UTC(), wantUTC)
	}
}

func TestAddLocalDays_MonthBoundary(t *testing.T) {
	base := time.Date(2026, 1, 30, 12, 0, 0, 0, IST)
	got := AddLocalDays(base, 3)
	if got.Month() != time.February || got.Day() != 2 {
		t.Errorf("AddLocalDays() = %s, want 2026-02-02", got.Format("2006-01-02"))
	}
}

func TestAtClock(t *testing.T) {
	day := time.Date(2026, 3, 2, 15, 45, 0, 0, IST)
	got := AtClock(day, 9*60+15)
	want := time.Date(2026, 3, 2, 9, 15, 0, 0, IST)
	if !got.Equal(want) {
		t.Errorf("AtClock() = %s, want %s", got, want)
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"monday", time.Date(2026, 3, 2, 10, 0, 0, 0, IST), false},
		{"friday", time.Date(2026, 3, 6, 10, 0, 0, 0, IST), false},
		{"saturday", time.Date(2026, 3, 7, 10, 0, 0, 0, IST), true},
		{"sunday", time.Date(2026, 3, 8, 10, 0, 0, 0, IST), true},
		// Friday 20:00 UTC is Saturday 01:30 IST.
		{"utc friday is ist saturday", time.Date(2026, 3, 6, 20, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeekend(tt.t); got != tt.want {
				t.Errorf("IsWeekend() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatScheduleTime(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, IST)

	if got := FormatScheduleTime(start, start.Add(45*time.Minute)); got != "2026-03-02 09:00 - 09:45" {
		t.Errorf("same day = %q", got)
	}
	if got := FormatScheduleTime(start, start.Add(24*time.Hour)); got != "2026-03-02 09:00 - 2026-03-03 09:00" {
		t.Errorf("multi day = %q", got)
	}
}
