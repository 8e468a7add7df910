package timecards

import (
	"testing"
	"time"
)

func TestTotalHours(t *testing.T) {
	in := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 15*time.Minute)
	if got := TotalHours(in, out); got != 8.25 {
		t.Fatalf("total = %v, want 8.25", got)
	}
}

func TestTotalHoursClampsNegative(t *testing.T) {
	in := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	if got := TotalHours(in, in.Add(-time.Hour)); got != 0 {
		t.Fatalf("total = %v, want 0 for reversed clocks", got)
	}
}

func TestOvertime(t *testing.T) {
	cases := []struct {
		total float64
		want  float64
	}{
		{7.5, 0},
		{8, 0},
		{8.25, 0.25},
		{10, 2},
	}
	for _, c := range cases {
		if got := Overtime(c.total); got != c.want {
			t.Fatalf("overtime(%v) = %v, want %v", c.total, got, c.want)
		}
	}
}

func TestValidEvent(t *testing.T) {
	for _, e := range []EventType{EventClockIn, EventClockOut, EventInRoute, EventStandbyStart, EventStandbyStop} {
		if !ValidEvent(e) {
			t.Fatalf("%s should be valid", e)
		}
	}
	if ValidEvent("lunch") {
		t.Fatalf("unknown event accepted")
	}
}
