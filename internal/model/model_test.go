package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"Lunes":     time.Monday,
		"MIÉRCOLES": time.Wednesday,
		"miercoles": time.Wednesday,
		" Sábado ":  time.Saturday,
		"friday":    time.Friday,
	}
	for name, want := range cases {
		got, err := ParseWeekday(name)
		if err != nil {
			t.Errorf("%q: unexpected error %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("%q: want %v, got %v", name, want, got)
		}
	}
	if _, err := ParseWeekday("Funday"); err == nil {
		t.Error("unknown day must fail")
	}
}

func TestClockJSON(t *testing.T) {
	var c Clock
	if err := json.Unmarshal([]byte(`"7:05"`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Hour != 7 || c.Minute != 5 {
		t.Fatalf("want 7:05, got %+v", c)
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"07:05"` {
		t.Errorf("want \"07:05\", got %s", b)
	}
	for _, bad := range []string{`"25:00"`, `"noon"`, `745`} {
		if err := json.Unmarshal([]byte(bad), &c); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
}

func TestDefaultScheduleIsFresh(t *testing.T) {
	a := DefaultSchedule()
	if len(a) != 7 {
		t.Fatalf("want 7 templates, got %d", len(a))
	}
	a[0].Day = "changed"
	if DefaultSchedule()[0].Day != "Lunes" {
		t.Error("DefaultSchedule must return a fresh slice")
	}
	for _, c := range a[1:] {
		if _, err := c.Weekday(); err != nil {
			t.Errorf("class %d: %v", c.ID, err)
		}
	}
}

func TestOccurrenceJSON(t *testing.T) {
	loc := time.FixedZone("CLT", -3*3600)
	occ := Occurrence{
		Class:          ClassTemplate{ID: 3, Day: "Martes", Time: Clock{Hour: 7, Minute: 30}},
		Date:           time.Date(2026, time.October, 13, 7, 30, 0, 0, loc),
		AvailableSeats: 12,
		Bookable:       true,
	}
	b, err := json.Marshal(occ)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":3,"day":"Martes","time":"07:30","date":"2026-10-13T10:30:00.000Z","availableBikes":12,"available":true}`
	if string(b) != want {
		t.Errorf("want %s, got %s", want, b)
	}
}

func TestReservationDetailJSON(t *testing.T) {
	class := ClassTemplate{ID: 1, Day: "Lunes", Time: Clock{Hour: 18, Minute: 45}}
	d := ReservationDetail{
		Reservation: Reservation{
			ID:        1760000000000,
			ClassID:   1,
			UserName:  "Ana",
			CreatedAt: time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC),
			Status:    StatusActive,
		},
		ClassDetails: &class,
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1760000000000,"classId":1,"userName":"Ana","date":"2026-10-12T09:00:00Z","status":"active","classDetails":{"id":1,"day":"Lunes","time":"18:45"}}`
	if string(b) != want {
		t.Errorf("want %s, got %s", want, b)
	}
}
