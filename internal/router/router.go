package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/handler"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/middleware"
)

// RegisterRoutes registers routes that need no collaborators.  Currently
// it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterReservations registers the public class and reservation
// endpoints.  The class listing goes through the response cache; the two
// mutating endpoints go through the rate limiter.  Both middlewares are
// pass-through when Redis is not available.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, cache *middleware.ResponseCache, limit echo.MiddlewareFunc) {
	e.GET("/classes", h.ListClasses, cache.Middleware())
	e.GET("/classes/:id", h.GetClass)
	e.GET("/reservations", h.ListReservations)
	e.POST("/reserve", h.Reserve, limit)
	e.DELETE("/cancel/:id", h.Cancel, limit)
}
