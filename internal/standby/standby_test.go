package standby

import (
	"testing"
	"time"
)

func TestDurationHours(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	if got := DurationHours(start, start.Add(90*time.Minute)); got != 1.5 {
		t.Fatalf("duration = %v, want 1.5", got)
	}
	if got := DurationHours(start, start); got != 0 {
		t.Fatalf("duration = %v, want 0", got)
	}
}

func TestDurationHoursClampsNegative(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	if got := DurationHours(start, start.Add(-time.Hour)); got != 0 {
		t.Fatalf("duration = %v, want 0 for reversed interval", got)
	}
}
