package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/model"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/schedule"
)

// Storage is the durable collaborator behind the store.  Load reports
// found=false when no prior document exists.  Save receives a full copy of
// the state and rewrites the document wholesale.
type Storage interface {
	Load(ctx context.Context) (state model.State, found bool, err error)
	Save(ctx context.Context, state model.State) error
}

// ReserveInput is the payload of a reserve request.  Field order matters:
// the user name is reported before the class id when both are invalid.
// Only a missing (zero) class id is a validation error; any other id is
// left to the class lookup.
type ReserveInput struct {
	UserName string `json:"userName" validate:"required,min=3"`
	ClassID  int64  `json:"classId" validate:"required"`
}

// ReservationRepo owns the class schedule and the reservation collection.
// Every operation runs under one mutex, so the duplicate and capacity
// checks in Reserve and the append that follows behave as a single
// conditional insert.  Mutations are written through to Storage before
// the lock is released; a failed write is logged and the in-memory change
// stays visible.
type ReservationRepo struct {
	mu           sync.Mutex
	storage      Storage
	calc         *schedule.Calculator
	validate     *validator.Validate
	classes      []model.ClassTemplate
	classIndex   map[int64]int
	reservations []model.Reservation
	lastID       int64
}

// NewReservationRepo loads the state from storage and returns a ready
// store.  When storage has no document yet the default weekly schedule is
// used.  Unknown day names or duplicate class ids are reported as errors
// so the process can refuse to start.
func NewReservationRepo(ctx context.Context, storage Storage, calc *schedule.Calculator) (*ReservationRepo, error) {
	if storage == nil || calc == nil {
		panic("nil dependency passed to NewReservationRepo")
	}
	state, found, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if !found {
		state = model.State{Classes: model.DefaultSchedule()}
		log.Printf("store: no prior state, using default schedule (%d classes)", len(state.Classes))
	}

	r := &ReservationRepo{
		storage:      storage,
		calc:         calc,
		validate:     validator.New(),
		classes:      state.Classes,
		classIndex:   make(map[int64]int, len(state.Classes)),
		reservations: state.Reservations,
	}
	for i, c := range r.classes {
		if c.ID <= 0 {
			return nil, fmt.Errorf("class at position %d has non-positive id %d", i, c.ID)
		}
		if _, dup := r.classIndex[c.ID]; dup {
			return nil, fmt.Errorf("duplicate class id %d", c.ID)
		}
		if _, err := c.Weekday(); err != nil {
			return nil, fmt.Errorf("class %d: %w", c.ID, err)
		}
		r.classIndex[c.ID] = i
	}
	if r.reservations == nil {
		r.reservations = []model.Reservation{}
	}
	for _, res := range r.reservations {
		if res.ID > r.lastID {
			r.lastID = res.ID
		}
	}
	return r, nil
}

// ListBookable returns the bookable occurrence of every class, in schedule
// order.  Classes whose next occurrence falls outside the horizon are
// skipped.
func (r *ReservationRepo) ListBookable(now time.Time) ([]model.Occurrence, error) {
	out, _, err := r.ListBookableUntil(now)
	return out, err
}

// ListBookableUntil is ListBookable plus the instant the listing stops
// being accurate through the passage of time alone: the earliest class
// start among the listed occurrences, or the earliest moment a skipped
// class enters the horizon.  The zero time means the listing never goes
// stale on its own.
func (r *ReservationRepo) ListBookableUntil(now time.Time) ([]model.Occurrence, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Occurrence, 0, len(r.classes))
	var until time.Time
	for _, c := range r.classes {
		occ, err := r.calc.Compute(c, r.reservations, now)
		if err != nil {
			return nil, time.Time{}, err
		}
		if at := r.calc.ChangesAt(occ, now); until.IsZero() || at.Before(until) {
			until = at
		}
		if occ.Bookable {
			out = append(out, occ)
		}
	}
	return out, until, nil
}

// Occurrence returns the next occurrence of one class whether or not it is
// bookable.
func (r *ReservationRepo) Occurrence(classID int64, now time.Time) (model.Occurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.classIndex[classID]
	if !ok {
		return model.Occurrence{}, fmt.Errorf("%w: class not found", ErrNotFound)
	}
	return r.calc.Compute(r.classes[i], r.reservations, now)
}

// ListByUser returns every reservation held by userName, joined with its
// class.  The match on the name is exact.
func (r *ReservationRepo) ListByUser(userName string) ([]model.ReservationDetail, error) {
	if userName == "" {
		return nil, fmt.Errorf("%w: user name is required", ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.ReservationDetail{}
	for _, res := range r.reservations {
		if res.UserName == userName {
			out = append(out, r.detail(res))
		}
	}
	return out, nil
}

// Reserve books a seat in a class for a user.  It fails with ErrValidation
// for a short name or missing class id, ErrNotFound for an unknown class,
// ErrConflict when the user already holds a seat in the class and
// ErrCapacity when the class is full.
func (r *ReservationRepo) Reserve(ctx context.Context, in ReserveInput, now time.Time) (model.ReservationDetail, error) {
	if err := r.validateInput(in); err != nil {
		return model.ReservationDetail{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.classIndex[in.ClassID]; !ok {
		return model.ReservationDetail{}, fmt.Errorf("%w: class not found", ErrNotFound)
	}
	booked := 0
	for _, res := range r.reservations {
		if !res.Holds(in.ClassID) {
			continue
		}
		if res.UserName == in.UserName {
			return model.ReservationDetail{}, fmt.Errorf("%w: you already have a reservation for this class", ErrConflict)
		}
		booked++
	}
	if booked >= r.calc.Capacity() {
		return model.ReservationDetail{}, fmt.Errorf("%w: no seats left", ErrCapacity)
	}

	res := model.Reservation{
		ID:        r.nextID(now),
		ClassID:   in.ClassID,
		UserName:  in.UserName,
		CreatedAt: now.UTC(),
		Status:    model.StatusActive,
	}
	r.reservations = append(r.reservations, res)
	r.persist(ctx)
	return r.detail(res), nil
}

// Cancel deletes the reservation with the given id and returns it joined
// with its class.  It returns ErrNotFound when no reservation matches.
func (r *ReservationRepo) Cancel(ctx context.Context, id int64) (model.ReservationDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, res := range r.reservations {
		if res.ID == id {
			r.reservations = append(r.reservations[:i], r.reservations[i+1:]...)
			r.persist(ctx)
			return r.detail(res), nil
		}
	}
	return model.ReservationDetail{}, fmt.Errorf("%w: reservation not found", ErrNotFound)
}

// Snapshot returns a deep copy of the current state.
func (r *ReservationRepo) Snapshot() model.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Close writes the state one last time.  Unlike the write-through on each
// mutation, a failure here is returned to the caller.
func (r *ReservationRepo) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.storage.Save(ctx, r.snapshot()); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (r *ReservationRepo) validateInput(in ReserveInput) error {
	err := r.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "UserName":
			return fmt.Errorf("%w: invalid user name, at least 3 characters are required", ErrValidation)
		case "ClassID":
			return fmt.Errorf("%w: class id is required", ErrValidation)
		}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// nextID keeps ids anchored to the creation instant in milliseconds while
// guaranteeing they increase strictly.  Callers must hold r.mu.
func (r *ReservationRepo) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

// detail joins a reservation with its class.  Callers must hold r.mu.
func (r *ReservationRepo) detail(res model.Reservation) model.ReservationDetail {
	d := model.ReservationDetail{Reservation: res}
	if i, ok := r.classIndex[res.ClassID]; ok {
		c := r.classes[i]
		d.ClassDetails = &c
	}
	return d
}

// persist writes the state through to storage.  The write is detached
// from ctx cancellation: once the mutation is visible in memory it must
// reach storage even if the client went away.  Callers must hold r.mu.
func (r *ReservationRepo) persist(ctx context.Context) {
	if err := r.storage.Save(context.WithoutCancel(ctx), r.snapshot()); err != nil {
		log.Printf("store: save failed: %v", fmt.Errorf("%w: %v", ErrPersistence, err))
	}
}

func (r *ReservationRepo) snapshot() model.State {
	classes := make([]model.ClassTemplate, len(r.classes))
	copy(classes, r.classes)
	reservations := make([]model.Reservation, len(r.reservations))
	copy(reservations, r.reservations)
	return model.State{Classes: classes, Reservations: reservations}
}
