package model

import (
	"encoding/json"
	"time"
)

// Occurrence is the next concrete instance of a class template together
// with its live availability.  Occurrences are derived on every read and
// never persisted.
type Occurrence struct {
	Class          ClassTemplate
	Date           time.Time
	AvailableSeats int
	Bookable       bool
}

// occurrenceJSON flattens the template fields next to the computed ones,
// which is the shape clients of GET /classes already consume.
type occurrenceJSON struct {
	ID             int64  `json:"id"`
	Day            string `json:"day"`
	Time           Clock  `json:"time"`
	Date           string `json:"date"`
	AvailableBikes int    `json:"availableBikes"`
	Available      bool   `json:"available"`
}

// MarshalJSON encodes the occurrence with its date as an RFC 3339 UTC
// instant with millisecond precision.
func (o Occurrence) MarshalJSON() ([]byte, error) {
	return json.Marshal(occurrenceJSON{
		ID:             o.Class.ID,
		Day:            o.Class.Day,
		Time:           o.Class.Time,
		Date:           o.Date.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		AvailableBikes: o.AvailableSeats,
		Available:      o.Bookable,
	})
}
