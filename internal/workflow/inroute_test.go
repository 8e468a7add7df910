package workflow

import (
	"testing"
	"time"
)

func TestDecideInRouteWithinSkew(t *testing.T) {
	captured := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	for _, delta := range []time.Duration{0, time.Minute, 15 * time.Minute, -15 * time.Minute} {
		d := DecideInRoute(captured, captured.Add(delta))
		if !d.Notify {
			t.Fatalf("delta %v: expected notification", delta)
		}
		if d.Warn {
			t.Fatalf("delta %v: unexpected warning", delta)
		}
	}
}

func TestDecideInRouteBeyondSkew(t *testing.T) {
	captured := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	for _, delta := range []time.Duration{16 * time.Minute, -16 * time.Minute, 20 * time.Minute, 2 * time.Hour} {
		d := DecideInRoute(captured, captured.Add(delta))
		if d.Notify {
			t.Fatalf("delta %v: notification must be suppressed for a stale ETA", delta)
		}
		if !d.Warn {
			t.Fatalf("delta %v: expected warning", delta)
		}
	}
}

func TestDecideInRouteBoundary(t *testing.T) {
	captured := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	// Exactly 15 minutes still notifies; one second over does not.
	if d := DecideInRoute(captured, captured.Add(15*time.Minute)); !d.Notify {
		t.Fatalf("15m edit should still notify")
	}
	if d := DecideInRoute(captured, captured.Add(15*time.Minute+time.Second)); d.Notify {
		t.Fatalf("15m1s edit should not notify")
	}
}
