package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/queue"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/repository"
)

// ListReservations handles GET /reservations?userName=X.  It returns the
// user's reservations joined with their class under "classDetails".  A
// missing userName is a 400.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	list, err := h.Repo.ListByUser(c.QueryParam("userName"))
	if err != nil {
		return writeError(c, "list reservations", err)
	}
	return c.JSON(http.StatusOK, list)
}

// Reserve handles POST /reserve with a JSON body {classId, userName}.  On
// success it answers 200 with the created reservation and its class.
// Validation, duplicate and full-class failures are 400; an unknown class
// is 404.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	var body repository.ReserveInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	res, err := h.Repo.Reserve(ctx, body, h.Now())
	if err != nil {
		return writeError(c, "reserve", err)
	}
	h.afterMutation(ctx, queue.KeyReservationCreated, res.Reservation, res.ClassDetails)
	return c.JSON(http.StatusOK, res)
}

// Cancel handles DELETE /cancel/:id.  It deletes the reservation and
// answers {"success": true}, or 404 when no reservation has that id.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	ctx := c.Request().Context()
	res, err := h.Repo.Cancel(ctx, id)
	if err != nil {
		return writeError(c, "cancel", err)
	}
	h.afterMutation(ctx, queue.KeyReservationCancelled, res.Reservation, res.ClassDetails)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
