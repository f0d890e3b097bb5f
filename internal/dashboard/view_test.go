package dashboard

import (
	"testing"
	"time"

	"halldesk/hall-service/internal/mention"
	"halldesk/hall-service/internal/models"
	"halldesk/hall-service/internal/schedule"
)

func clock(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("parse clock %q: %v", value, err)
	}
	return parsed
}

func newBuilder() *Builder {
	return NewBuilder(mention.LoadVocabulary(""))
}

func daySessions() []models.Session {
	return []models.Session{
		{SessionID: "s1", Hall: "Hall A", Date: "2026-03-14", StartTime: "10:00", EndTime: "10:30", Name: "Opening Lecture"},
		{SessionID: "s2", Hall: "Hall A", Date: "2026-03-14", StartTime: "11:00", EndTime: "11:30", Name: "Panel"},
	}
}

func TestBuildOnSchedule(t *testing.T) {
	view := newBuilder().Build("Hall A", "2026-03-14", daySessions(), clock(t, "2026-03-14 10:15"))

	if view.CascadeDelay != 0 {
		t.Fatalf("cascade delay=%d, want 0", view.CascadeDelay)
	}
	if view.Current == nil || *view.Current != "s1" {
		t.Fatalf("current=%v, want s1", view.Current)
	}

	first := view.Sessions[0]
	if first.TimeState != schedule.StateCurrent || first.RemainingMinutes != 15 {
		t.Fatalf("first session view=%+v", first)
	}

	second := view.Sessions[1]
	if second.TimeState != schedule.StateUpcoming {
		t.Fatalf("second state=%s", second.TimeState)
	}
	if second.AdjustedStart != "" {
		t.Fatalf("no delay, but adjusted start=%q", second.AdjustedStart)
	}
}

func TestBuildInOvertime(t *testing.T) {
	view := newBuilder().Build("Hall A", "2026-03-14", daySessions(), clock(t, "2026-03-14 10:45"))

	if view.CascadeDelay != 15 {
		t.Fatalf("cascade delay=%d, want 15", view.CascadeDelay)
	}
	first := view.Sessions[0]
	if first.TimeState != schedule.StateCurrent || first.RemainingMinutes != -15 {
		t.Fatalf("first session view state=%s remaining=%d", first.TimeState, first.RemainingMinutes)
	}

	second := view.Sessions[1]
	if second.AdjustedStart != "11:15" || second.AdjustedEnd != "11:45" {
		t.Fatalf("adjusted times=%s-%s, want 11:15-11:45", second.AdjustedStart, second.AdjustedEnd)
	}
	// Stored times are untouched; the delay is a projection only.
	if second.StartTime != "11:00" {
		t.Fatalf("stored start mutated to %s", second.StartTime)
	}
}

func TestBuildNoCurrentSession(t *testing.T) {
	// A completed session stops anchoring the delay; the gap before the
	// next session has nothing running.
	sessions := daySessions()
	sessions[0].Status = models.StatusCompleted
	view := newBuilder().Build("Hall A", "2026-03-14", sessions, clock(t, "2026-03-14 10:50"))
	if view.CascadeDelay != 0 || view.Current != nil {
		t.Fatalf("gap between sessions: delay=%d current=%v", view.CascadeDelay, view.Current)
	}
}

func TestBuildResolvesMentionContacts(t *testing.T) {
	builder := newBuilder()
	builder.SetRoster([]models.Registrant{
		{RegistrantID: "r1", Name: "Asha Rao", Phone: "9876543210", Email: "asha@x.com"},
		{RegistrantID: "r2", Name: "Vikram Shah", Phone: "9123456789"},
	}, "v1")

	sessions := []models.Session{{
		SessionID: "s1", Hall: "Hall A", Date: "2026-03-14",
		StartTime: "10:00", EndTime: "10:30",
		Speakers:     "Dr. Asha Rao, Vikram Shah, Unknown Person",
		SpeakersText: "",
	}}

	view := builder.Build("Hall A", "2026-03-14", sessions, clock(t, "2026-03-14 09:00"))
	mentions := view.Sessions[0].Mentions
	if len(mentions) != 3 {
		t.Fatalf("mentions=%+v", mentions)
	}
	if mentions[0].Phone != "9876543210" || mentions[0].Email != "asha@x.com" {
		t.Fatalf("asha mention=%+v", mentions[0])
	}
	if mentions[1].Phone != "9123456789" {
		t.Fatalf("vikram mention=%+v", mentions[1])
	}
	if mentions[2].Phone != "" {
		t.Fatalf("unknown person got a phone: %+v", mentions[2])
	}
}

func TestBuildEmbeddedContactWins(t *testing.T) {
	builder := newBuilder()
	builder.SetRoster([]models.Registrant{
		{RegistrantID: "r1", Name: "Asha Rao", Phone: "1111111111"},
	}, "v1")

	sessions := []models.Session{{
		SessionID: "s1", Hall: "Hall A", Date: "2026-03-14",
		StartTime: "10:00", EndTime: "10:30",
		SpeakersText: "Dr. Asha Rao (asha@x.com, 9876543210)",
	}}

	view := builder.Build("Hall A", "2026-03-14", sessions, clock(t, "2026-03-14 09:00"))
	got := view.Sessions[0].Mentions[0]
	if got.Phone != "9876543210" {
		t.Fatalf("embedded phone lost: %+v", got)
	}
}

func TestParseCacheReuse(t *testing.T) {
	builder := newBuilder()
	updated := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	sessions := []models.Session{{
		SessionID: "s1", Hall: "Hall A", Date: "2026-03-14",
		StartTime: "10:00", EndTime: "10:30",
		Speakers:  "Asha Rao",
		UpdatedAt: &updated,
	}}

	first := builder.Build("Hall A", "2026-03-14", sessions, clock(t, "2026-03-14 09:00"))
	second := builder.Build("Hall A", "2026-03-14", sessions, clock(t, "2026-03-14 09:01"))
	if len(first.Sessions[0].Mentions) != 1 || len(second.Sessions[0].Mentions) != 1 {
		t.Fatalf("mentions lost across renders")
	}

	// A changed updated-at invalidates the cache entry for that session.
	later := updated.Add(time.Minute)
	sessions[0].UpdatedAt = &later
	sessions[0].Speakers = "Vikram Shah"
	third := builder.Build("Hall A", "2026-03-14", sessions, clock(t, "2026-03-14 09:02"))
	if third.Sessions[0].Mentions[0].Name != "Vikram Shah" {
		t.Fatalf("stale parse served: %+v", third.Sessions[0].Mentions)
	}
}
