package schedule

import (
	"testing"
	"time"

	"halldesk/hall-service/internal/models"
)

func clock(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("parse clock %q: %v", value, err)
	}
	return parsed
}

func TestClassify(t *testing.T) {
	session := models.Session{Date: "2026-03-14", StartTime: "10:00", EndTime: "10:30"}

	cases := []struct {
		now  string
		want TimeState
	}{
		{"2026-03-13 23:59", StateFuture},
		{"2026-03-15 00:01", StatePast},
		{"2026-03-14 09:00", StateUpcoming},
		{"2026-03-14 09:29", StateUpcoming},
		{"2026-03-14 09:30", StateStartingSoon},
		{"2026-03-14 09:59", StateStartingSoon},
		{"2026-03-14 10:00", StateCurrent},
		{"2026-03-14 10:15", StateCurrent},
		{"2026-03-14 10:30", StateCurrent},
		{"2026-03-14 10:31", StatePast},
	}

	for _, tt := range cases {
		if got := Classify(session, clock(t, tt.now)); got != tt.want {
			t.Fatalf("Classify(now=%s)=%s, want %s", tt.now, got, tt.want)
		}
	}
}

func TestMinutesOfDay(t *testing.T) {
	cases := []struct {
		clock string
		want  int
	}{
		{"00:00", 0},
		{"10:15", 615},
		{"23:59", 1439},
		{" 09:05 ", 545},
		{"10:15:30", 615},
		{"bogus", 0},
		{"", 0},
	}
	for _, tt := range cases {
		if got := MinutesOfDay(tt.clock); got != tt.want {
			t.Fatalf("MinutesOfDay(%q)=%d, want %d", tt.clock, got, tt.want)
		}
	}
}

func TestFormatClockWraps(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{615, "10:15"},
		{1439, "23:59"},
		{1440, "00:00"},
		{1500, "01:00"},
	}
	for _, tt := range cases {
		if got := FormatClock(tt.minutes); got != tt.want {
			t.Fatalf("FormatClock(%d)=%s, want %s", tt.minutes, got, tt.want)
		}
	}
}
