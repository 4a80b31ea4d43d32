package schedule

import (
	"testing"
	"time"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/model"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	c, err := NewCalculator(DefaultCapacity, DefaultHorizonDays, time.UTC)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	return c
}

func TestNewCalculator_RejectsBadLimits(t *testing.T) {
	if _, err := NewCalculator(0, 7, nil); err == nil {
		t.Error("capacity 0: expected error")
	}
	if _, err := NewCalculator(35, 0, nil); err == nil {
		t.Error("horizon 0: expected error")
	}
	c, err := NewCalculator(35, 7, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Location() != time.Local {
		t.Errorf("nil location: want time.Local, got %v", c.Location())
	}
}

func TestCompute_CountsReservationsPerTemplate(t *testing.T) {
	c := newTestCalculator(t)
	tpl := model.ClassTemplate{ID: 1, Day: "Lunes", Time: model.Clock{Hour: 18, Minute: 45}}
	reservations := []model.Reservation{
		{ID: 1, ClassID: 1, UserName: "Ana", Status: model.StatusActive},
		{ID: 2, ClassID: 1, UserName: "Bea", Status: model.StatusActive},
		{ID: 3, ClassID: 2, UserName: "Ana", Status: model.StatusActive},
	}
	occ, err := c.Compute(tpl, reservations, monday(t, 9, 0))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if occ.AvailableSeats != 33 {
		t.Errorf("AvailableSeats: want 33, got %d", occ.AvailableSeats)
	}
	if !occ.Bookable {
		t.Error("Bookable: want true for a class later today")
	}
	want := time.Date(2026, time.October, 12, 18, 45, 0, 0, time.UTC)
	if !occ.Date.Equal(want) {
		t.Errorf("Date: want %s, got %s", want, occ.Date)
	}
}

func TestCompute_NegativeSeatsWhenOverbooked(t *testing.T) {
	c, err := NewCalculator(2, 7, time.UTC)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	tpl := model.ClassTemplate{ID: 4, Day: "Miércoles", Time: model.Clock{Hour: 18, Minute: 45}}
	var reservations []model.Reservation
	for i := 0; i < 3; i++ {
		reservations = append(reservations, model.Reservation{ID: int64(i + 1), ClassID: 4, Status: model.StatusActive})
	}
	occ, err := c.Compute(tpl, reservations, monday(t, 9, 0))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if occ.AvailableSeats != -1 {
		t.Errorf("AvailableSeats: want -1, got %d", occ.AvailableSeats)
	}
}

// TestCompute_OccurrenceAtNowIsNotBookable covers the strict lower bound
// of the horizon: a class starting this very instant can no longer be booked.
func TestCompute_OccurrenceAtNowIsNotBookable(t *testing.T) {
	c := newTestCalculator(t)
	tpl := model.ClassTemplate{ID: 1, Day: "Lunes", Time: model.Clock{Hour: 18, Minute: 45}}
	now := monday(t, 18, 45)
	occ, err := c.Compute(tpl, nil, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !occ.Date.Equal(now) {
		t.Fatalf("Date: want %s, got %s", now, occ.Date)
	}
	if occ.Bookable {
		t.Error("Bookable: want false when the occurrence equals now")
	}
}

func TestCompute_ShortHorizonHidesLaterClasses(t *testing.T) {
	c, err := NewCalculator(35, 1, time.UTC)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	now := monday(t, 9, 0)
	tuesday := model.ClassTemplate{ID: 3, Day: "Martes", Time: model.Clock{Hour: 7, Minute: 30}}
	friday := model.ClassTemplate{ID: 7, Day: "Viernes", Time: model.Clock{Hour: 19, Minute: 30}}

	occ, err := c.Compute(tuesday, nil, now)
	if err != nil {
		t.Fatalf("compute tuesday: %v", err)
	}
	if !occ.Bookable {
		t.Error("tuesday 07:30 is within one day of monday 09:00; want bookable")
	}
	occ, err = c.Compute(friday, nil, now)
	if err != nil {
		t.Fatalf("compute friday: %v", err)
	}
	if occ.Bookable {
		t.Error("friday is outside a one day horizon; want not bookable")
	}
	if occ.AvailableSeats != 35 {
		t.Errorf("AvailableSeats still reported for non-bookable: want 35, got %d", occ.AvailableSeats)
	}
}

func TestCompute_UnknownDay(t *testing.T) {
	c := newTestCalculator(t)
	tpl := model.ClassTemplate{ID: 9, Day: "Funday", Time: model.Clock{Hour: 10}}
	if _, err := c.Compute(tpl, nil, monday(t, 9, 0)); err == nil {
		t.Fatal("expected error for unknown day name")
	}
}

func TestChangesAt_BookableChangesAtClassStart(t *testing.T) {
	c := newTestCalculator(t)
	tpl := model.ClassTemplate{ID: 1, Day: "Lunes", Time: model.Clock{Hour: 18, Minute: 45}}
	now := monday(t, 18, 44)
	occ, err := c.Compute(tpl, nil, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	at := c.ChangesAt(occ, now)
	if !at.Equal(occ.Date) {
		t.Fatalf("want %s, got %s", occ.Date, at)
	}
	// Recomputing at that instant gives a different answer.
	later, err := c.Compute(tpl, nil, at)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if later.Bookable {
		t.Error("occurrence at its start must not be bookable")
	}
}

func TestChangesAt_BeyondHorizonChangesWhenItEnters(t *testing.T) {
	c, err := NewCalculator(DefaultCapacity, 2, time.UTC)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	// Friday 19:30 is four days after Monday 09:00, outside a 2 day horizon.
	tpl := model.ClassTemplate{ID: 7, Day: "Viernes", Time: model.Clock{Hour: 19, Minute: 30}}
	now := monday(t, 9, 0)
	occ, err := c.Compute(tpl, nil, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if occ.Bookable {
		t.Fatal("friday must be outside the horizon")
	}
	want := time.Date(2026, time.October, 14, 19, 30, 0, 0, time.UTC)
	at := c.ChangesAt(occ, now)
	if !at.Equal(want) {
		t.Fatalf("want %s, got %s", want, at)
	}
	before, _ := c.Compute(tpl, nil, at.Add(-time.Second))
	after, _ := c.Compute(tpl, nil, at)
	if before.Bookable || !after.Bookable {
		t.Errorf("bookable just before=%v at=%v; want false, true", before.Bookable, after.Bookable)
	}
}
