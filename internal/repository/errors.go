// Package repository holds the reservation store and the error values it
// reports.  Handlers translate these sentinel errors into HTTP responses
// with errors.Is; the wrapped message is safe to show to clients.
package repository

import "errors"

// ErrValidation is returned when the input is missing or malformed, such as
// a user name shorter than three characters.  Handlers answer 400.
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned when a referenced class or reservation does not
// exist.  Handlers answer 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when the user already holds a reservation for the
// class.  Handlers answer 400, as clients of this API expect.
var ErrConflict = errors.New("conflict")

// ErrCapacity is returned when every seat of the class is taken.  Handlers
// answer 400.
var ErrCapacity = errors.New("class full")

// ErrPersistence wraps failures of the durable storage.  It is logged by the
// store and never returned from a mutating operation; the in-memory change
// is kept.
var ErrPersistence = errors.New("persistence failed")
