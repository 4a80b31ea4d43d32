package model

import "time"

// StatusActive is the only status a reservation ever carries.  Cancelling
// a reservation deletes it instead of transitioning it.
const StatusActive = "active"

// Reservation records one user's seat in a class template.
//
// Fields:
//
//	ID        – unique, strictly increasing identifier derived from the
//	            creation instant in Unix milliseconds.
//	ClassID   – template being reserved.
//	UserName  – free-form name of the person attending (at least 3 chars).
//	CreatedAt – creation instant, encoded as "date" like existing documents.
//	Status    – always StatusActive.
type Reservation struct {
	ID        int64     `json:"id"`
	ClassID   int64     `json:"classId"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"date"`
	Status    string    `json:"status"`
}

// Holds reports whether the reservation occupies a seat in classID.  Seat
// counts and duplicate checks both go through it.
func (r Reservation) Holds(classID int64) bool {
	return r.ClassID == classID && r.Status == StatusActive
}

// ReservationDetail is a reservation joined with its class template, the
// shape returned by the listing and reserve endpoints.
type ReservationDetail struct {
	Reservation
	ClassDetails *ClassTemplate `json:"classDetails"`
}

// State is the whole durable document: the schedule plus every reservation.
// It is rewritten wholesale on each mutation.
type State struct {
	Classes      []ClassTemplate `json:"classes"`
	Reservations []Reservation   `json:"reservations"`
}
