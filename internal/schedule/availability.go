package schedule

import (
	"fmt"
	"time"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/model"
)

const (
	// DefaultCapacity is the number of bikes in the room.
	DefaultCapacity = 35
	// DefaultHorizonDays is how far ahead occurrences can be booked.
	DefaultHorizonDays = 7
)

// Calculator computes occurrences and remaining seats for class templates.
// The zero value is not usable; build one with NewCalculator.
type Calculator struct {
	capacity    int
	horizonDays int
	loc         *time.Location
}

// NewCalculator returns a Calculator for the given capacity and horizon.
// Template times are interpreted in loc; a nil loc means time.Local.
func NewCalculator(capacity, horizonDays int, loc *time.Location) (*Calculator, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	if horizonDays < 1 {
		return nil, fmt.Errorf("horizon must be at least one day, got %d", horizonDays)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{capacity: capacity, horizonDays: horizonDays, loc: loc}, nil
}

// Capacity returns the number of seats per class template.
func (c *Calculator) Capacity() int { return c.capacity }

// Location returns the timezone template times are interpreted in.
func (c *Calculator) Location() *time.Location { return c.loc }

// Compute resolves the next occurrence of tpl after now and counts its
// active reservations.
//
// The count spans every reservation held against the template id, not
// only the ones made for this particular week.  AvailableSeats may be
// negative if the document was over-booked outside this process.
func (c *Calculator) Compute(tpl model.ClassTemplate, reservations []model.Reservation, now time.Time) (model.Occurrence, error) {
	day, err := tpl.Weekday()
	if err != nil {
		return model.Occurrence{}, fmt.Errorf("class %d: %w", tpl.ID, err)
	}
	local := now.In(c.loc)
	date := NextOccurrence(day, tpl.Time, local)

	booked := 0
	for _, r := range reservations {
		if r.Holds(tpl.ID) {
			booked++
		}
	}

	limit := local.AddDate(0, 0, c.horizonDays)
	return model.Occurrence{
		Class:          tpl,
		Date:           date,
		AvailableSeats: c.capacity - booked,
		Bookable:       date.After(local) && !date.After(limit),
	}, nil
}

// ChangesAt returns the instant at which occ, computed at now, goes stale
// without any reservation changing: the class start for an occurrence
// within the horizon, or the moment it enters the horizon otherwise.
func (c *Calculator) ChangesAt(occ model.Occurrence, now time.Time) time.Time {
	local := now.In(c.loc)
	if occ.Date.After(local.AddDate(0, 0, c.horizonDays)) {
		return occ.Date.In(c.loc).AddDate(0, 0, -c.horizonDays)
	}
	return occ.Date
}
