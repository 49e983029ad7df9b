package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// DayRolloverHour is the local hour at which the logical day starts.
const DayRolloverHour = 4

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// LogicalDate returns the YYYY-MM-DD of the logical day t falls into in
// loc. Times before 04:00 belong to the previous calendar day.
func LogicalDate(t time.Time, loc *time.Location) string {
	return LogicalDay(t, loc).Format(DateLayout)
}

// LogicalDay returns local midnight of the logical day t falls into. The
// rollover is by wall clock, so DST jumps do not move it.
func LogicalDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	y, m, d := local.Date()
	if local.Hour() < DayRolloverHour {
		d-- // до 04:00 ещё вчерашний день
	}
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Today is LogicalDate for the current time of clock.
func Today(clock clockwork.Clock, loc *time.Location) string {
	return LogicalDate(clock.Now(), loc)
}

// ClockTime formats the local wall clock as "HH:MM".
func ClockTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimeLayout)
}

// ParseClock validates a "H:MM"/"HH:MM" time of day and normalizes it.
func ParseClock(s string) (string, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return t.Format(TimeLayout), nil
}
