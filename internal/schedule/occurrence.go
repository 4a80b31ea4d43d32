// Package schedule derives concrete class occurrences from the weekly
// schedule and computes their live availability.
package schedule

import (
	"time"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/model"
)

// NextOccurrence returns the soonest instant at or after now that falls on
// day at the given time of day.  The wall clock is interpreted in now's
// location, so callers pick the class timezone with now.In(loc).
//
// A candidate equal to now is kept; only a candidate strictly before now
// (same weekday, time already passed) is pushed one week ahead.
func NextOccurrence(day time.Weekday, at model.Clock, now time.Time) time.Time {
	offset := (int(day) - int(now.Weekday()) + 7) % 7
	next := time.Date(now.Year(), now.Month(), now.Day()+offset, at.Hour, at.Minute, 0, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
