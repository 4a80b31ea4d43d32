package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/model"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/repository"
)

// EventPublisher emits reservation events after a successful mutation.
// Errors are ignored by the handlers; the publisher logs them itself.
type EventPublisher interface {
	PublishReservation(ctx context.Context, key string, res model.Reservation, class *model.ClassTemplate) error
}

// CachePurger drops cached class listings once availability changed.
type CachePurger interface {
	Purge(ctx context.Context)
}

// ReservationHandler serves the class and reservation endpoints on top of
// the reservation store.  Events and Cache are optional.
type ReservationHandler struct {
	Repo   *repository.ReservationRepo
	Events EventPublisher
	Cache  CachePurger
	Now    func() time.Time
}

// NewReservationHandler constructs a handler around repo.  It panics when
// repo is nil.
func NewReservationHandler(repo *repository.ReservationRepo, events EventPublisher, cache CachePurger) *ReservationHandler {
	if repo == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Repo: repo, Events: events, Cache: cache, Now: time.Now}
}

// afterMutation purges the listing cache and publishes the event.  Neither
// step can fail the request.
func (h *ReservationHandler) afterMutation(ctx context.Context, key string, res model.Reservation, class *model.ClassTemplate) {
	if h.Cache != nil {
		h.Cache.Purge(ctx)
	}
	if h.Events != nil {
		_ = h.Events.PublishReservation(ctx, key, res, class)
	}
}

// writeError maps store errors onto HTTP responses.  Client errors carry
// the store's message; anything else is logged and answered with a
// generic 500.
func writeError(c echo.Context, op string, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrValidation),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrCapacity):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Printf("handler: %s: %v", op, err)
		return c.JSON(status, echo.Map{"error": "internal server error"})
	}
	return c.JSON(status, echo.Map{"error": clientMessage(err)})
}

// clientMessage strips the sentinel prefix ("not found: class not found")
// so clients only see the specific reason.
func clientMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
