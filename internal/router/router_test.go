package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/config"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/database"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/handler"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/middleware"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/repository"
	"github.com/vjcatalan74/reservas-ciclo-backend/internal/schedule"
)

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	calc, err := schedule.NewCalculator(schedule.DefaultCapacity, schedule.DefaultHorizonDays, time.UTC)
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}
	storage := database.NewFileStorage(filepath.Join(t.TempDir(), "data.json"))
	repo, err := repository.NewReservationRepo(context.Background(), storage, calc)
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	cache := middleware.NewResponseCache(config.CacheConfig{}, nil)
	limit := middleware.RateLimit(config.RateLimitConfig{}, nil)
	h := handler.NewReservationHandler(repo, nil, cache)

	e := echo.New()
	RegisterRoutes(e)
	RegisterReservations(e, h, cache, limit)
	return e
}

func TestRoutesRegistered(t *testing.T) {
	e := newEcho(t)
	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/classes", "", http.StatusOK},
		{http.MethodGet, "/classes/1", "", http.StatusOK},
		{http.MethodGet, "/reservations?userName=Ana", "", http.StatusOK},
		{http.MethodPost, "/reserve", `{"classId":1,"userName":"Ana"}`, http.StatusOK},
		{http.MethodDelete, "/cancel/1", "", http.StatusNotFound},
		{http.MethodGet, "/reserve", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/unknown", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		var req *http.Request
		if tc.body != "" {
			req = httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		} else {
			req = httptest.NewRequest(tc.method, tc.target, nil)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("%s %s: want %d, got %d", tc.method, tc.target, tc.want, rec.Code)
		}
	}
}
