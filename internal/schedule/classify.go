package schedule

import (
	"strconv"
	"strings"
	"time"

	"halldesk/hall-service/internal/models"
)

type TimeState string

const (
	StatePast         TimeState = "past"
	StateCurrent      TimeState = "current"
	StateStartingSoon TimeState = "starting_soon"
	StateUpcoming     TimeState = "upcoming"
	StateFuture       TimeState = "future"
)

// prepWindowMinutes is the pre-session window during which a session counts
// as starting soon rather than merely upcoming.
const prepWindowMinutes = 30

const dateLayout = "2006-01-02"

// Classify places a session relative to the wall clock. Sessions dated on
// another day are past or future regardless of their times; same-day sessions
// are bucketed by minutes since midnight.
func Classify(session models.Session, now time.Time) TimeState {
	today := now.Format(dateLayout)
	if session.Date != today {
		if session.Date < today {
			return StatePast
		}
		return StateFuture
	}

	start := MinutesOfDay(session.StartTime)
	end := MinutesOfDay(session.EndTime)
	current := now.Hour()*60 + now.Minute()

	switch {
	case current < start-prepWindowMinutes:
		return StateUpcoming
	case current < start:
		return StateStartingSoon
	case current <= end:
		return StateCurrent
	default:
		return StatePast
	}
}

// MinutesOfDay converts an "HH:MM" clock string to minutes since midnight.
// Malformed input degrades to 0 rather than erroring; upstream data quality
// is not validated here.
func MinutesOfDay(clock string) int {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 3)
	if len(parts) < 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

// FormatClock renders minutes since midnight as "HH:MM", wrapping past
// midnight via modulo 24 hours.
func FormatClock(minutes int) string {
	minutes %= 24 * 60
	if minutes < 0 {
		minutes += 24 * 60
	}
	hours := minutes / 60
	rem := minutes % 60
	return pad2(hours) + ":" + pad2(rem)
}

func pad2(value int) string {
	if value < 10 {
		return "0" + strconv.Itoa(value)
	}
	return strconv.Itoa(value)
}
