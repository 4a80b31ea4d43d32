package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ClassTemplate is one slot of the fixed weekly schedule.  Templates are
// loaded once at startup and never mutated afterwards.
//
// Fields:
//
//	ID   – unique positive identifier, referenced by reservations.
//	Day  – weekday name as stored in the data document (e.g. "Lunes").
//	Time – local time-of-day at which the class starts.
type ClassTemplate struct {
	ID   int64  `json:"id"`
	Day  string `json:"day"`
	Time Clock  `json:"time"`
}

// Weekday resolves the template's day name.  Callers that load templates
// are expected to have validated the name with ParseWeekday already.
func (c ClassTemplate) Weekday() (time.Weekday, error) {
	return ParseWeekday(c.Day)
}

// dayNames lists the accepted spellings for each weekday.  The Spanish
// name is the one the default schedule is written with.
var dayNames = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miércoles": time.Wednesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sábado":    time.Saturday,
	"sabado":    time.Saturday,
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday converts a day name into a time.Weekday.  Matching is case
// insensitive and ignores surrounding whitespace.
func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := dayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return d, nil
}

// Clock is a time-of-day with minute resolution.  It is encoded in JSON as
// a zero padded "HH:MM" string to stay compatible with existing documents.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24h).  Single digit hours are accepted.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time of day %q", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

func (c Clock) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// DefaultSchedule returns the weekly schedule used when no prior state
// exists.  A fresh slice is returned on every call.
func DefaultSchedule() []ClassTemplate {
	return []ClassTemplate{
		{ID: 1, Day: "Lunes", Time: Clock{18, 45}},
		{ID: 2, Day: "Lunes", Time: Clock{19, 45}},
		{ID: 3, Day: "Martes", Time: Clock{7, 30}},
		{ID: 4, Day: "Miércoles", Time: Clock{18, 45}},
		{ID: 5, Day: "Miércoles", Time: Clock{19, 45}},
		{ID: 6, Day: "Jueves", Time: Clock{7, 0}},
		{ID: 7, Day: "Viernes", Time: Clock{19, 30}},
	}
}
