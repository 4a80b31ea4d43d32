package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListClasses handles GET /classes.  It returns the next occurrence of
// every class that can still be booked within the horizon, in schedule
// order, with the number of bikes left.  Expires carries the instant the
// listing goes stale on its own, which bounds the response cache.
func (h *ReservationHandler) ListClasses(c echo.Context) error {
	occ, until, err := h.Repo.ListBookableUntil(h.Now())
	if err != nil {
		return writeError(c, "list classes", err)
	}
	if !until.IsZero() {
		c.Response().Header().Set("Expires", until.UTC().Format(http.TimeFormat))
	}
	return c.JSON(http.StatusOK, occ)
}

// GetClass handles GET /classes/:id.  Unlike ListClasses it answers for a
// class even when its next occurrence is not bookable, with "available"
// set to false.
func (h *ReservationHandler) GetClass(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	occ, err := h.Repo.Occurrence(id, h.Now())
	if err != nil {
		return writeError(c, "get class", err)
	}
	return c.JSON(http.StatusOK, occ)
}
