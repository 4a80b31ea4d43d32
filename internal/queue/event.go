// Package queue defines message payloads exchanged over the message broker.
package queue

// Routing keys published on the reservation exchange.
const (
	KeyReservationCreated   = "reservation.created"
	KeyReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is created or
// cancelled.  It carries enough of the class to be logged or notified
// without reading the store.
type ReservationEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"` // one of the Key* routing keys
	ReservationID int64  `json:"reservation_id"`
	ClassID       int64  `json:"class_id"`
	ClassDay      string `json:"class_day,omitempty"`
	ClassTime     string `json:"class_time,omitempty"`
	UserName      string `json:"user_name"`
	OccurredAt    string `json:"occurred_at"` // RFC 3339 UTC
}
