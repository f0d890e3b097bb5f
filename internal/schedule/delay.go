package schedule

import (
	"time"

	"halldesk/hall-service/internal/models"
)

// CascadeDelay computes the schedule slip, in minutes, caused by the
// currently running session. A session still inside its window contributes
// no delay; one in overtime pushes the rest of the day's agenda by however
// many minutes it has overrun. The delay is a live projection only and is
// never written back to any stored time.
func CascadeDelay(current *models.Session, now time.Time) int {
	if current == nil {
		return 0
	}
	end := MinutesOfDay(current.EndTime)
	remaining := end - (now.Hour()*60 + now.Minute())
	if remaining < 0 {
		return -remaining
	}
	return 0
}

// RemainingMinutes reports how many minutes the session has left; negative
// values mean overtime. End-before-start input data is passed through as-is.
func RemainingMinutes(session models.Session, now time.Time) int {
	return MinutesOfDay(session.EndTime) - (now.Hour()*60 + now.Minute())
}

// AdjustTime shifts an "HH:MM" time by delayMinutes, wrapping hours modulo
// 24. AdjustTime(t, 0) re-renders t unchanged.
func AdjustTime(clock string, delayMinutes int) string {
	return FormatClock(MinutesOfDay(clock) + delayMinutes)
}

// CurrentSession returns the session driving the live schedule: the one
// classified current, or failing that the most recently started session of
// the day, which is treated as still running over until the coordinator
// marks it completed or cancelled. Hall schedules assume at most one
// running session at a time.
func CurrentSession(sessions []models.Session, now time.Time) *models.Session {
	today := now.Format(dateLayout)
	nowMinutes := now.Hour()*60 + now.Minute()

	var anchor *models.Session
	for i := range sessions {
		session := &sessions[i]
		if Classify(*session, now) == StateCurrent {
			return session
		}
		if session.Date != today || MinutesOfDay(session.StartTime) > nowMinutes {
			continue
		}
		if anchor == nil || MinutesOfDay(session.StartTime) >= MinutesOfDay(anchor.StartTime) {
			anchor = session
		}
	}
	if anchor == nil {
		return nil
	}
	switch anchor.Status {
	case models.StatusCompleted, models.StatusCancelled:
		return nil
	}
	return anchor
}
