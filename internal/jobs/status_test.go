package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGuardConflictSameOperator(t *testing.T) {
	blocking := ActiveJob{ID: uuid.New(), JobNumber: "J-100", Address: "22 Plant Rd", Status: StatusInProgress}

	err := GuardTransition(StatusScheduled, StatusInRoute, []ActiveJob{blocking})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.JobNumber != "J-100" || conflict.Address != "22 Plant Rd" || conflict.Status != StatusInProgress {
		t.Fatalf("conflict payload missing context: %+v", conflict)
	}
}

func TestGuardNoConflictForOtherOperator(t *testing.T) {
	// Another operator's jobs never appear in `others`; an empty slice passes.
	if err := GuardTransition(StatusScheduled, StatusInRoute, nil); err != nil {
		t.Fatalf("expected transition to pass, got %v", err)
	}
}

func TestGuardIllegalTransitions(t *testing.T) {
	cases := []struct{ from, to Status }{
		{StatusScheduled, StatusCompleted},
		{StatusScheduled, StatusInProgress},
		{StatusCompleted, StatusInRoute},
		{StatusCancelled, StatusInProgress},
		{StatusInProgress, StatusScheduled},
	}
	for _, c := range cases {
		err := GuardTransition(c.from, c.to, nil)
		var te *TransitionError
		if !errors.As(err, &te) {
			t.Fatalf("%s -> %s: expected TransitionError, got %v", c.from, c.to, err)
		}
	}
}

func TestGuardLegalTransitions(t *testing.T) {
	cases := []struct{ from, to Status }{
		{StatusScheduled, StatusInRoute},
		{StatusInRoute, StatusInProgress},
		{StatusInRoute, StatusScheduled},
		{StatusInProgress, StatusCompleted},
		{StatusScheduled, StatusCancelled},
		{StatusInProgress, StatusCancelled},
	}
	for _, c := range cases {
		if err := GuardTransition(c.from, c.to, nil); err != nil {
			t.Fatalf("%s -> %s: expected legal, got %v", c.from, c.to, err)
		}
	}
}

func TestGuardNonActivatingIgnoresOthers(t *testing.T) {
	blocking := []ActiveJob{{ID: uuid.New(), JobNumber: "J-9", Status: StatusInRoute}}
	// Completing a job is not an activating transition; other active jobs don't block it.
	if err := GuardTransition(StatusInProgress, StatusCompleted, blocking); err != nil {
		t.Fatalf("expected completion to pass, got %v", err)
	}
}

func TestGuardUnknownStatus(t *testing.T) {
	if err := GuardTransition(StatusScheduled, Status("paused"), nil); err == nil {
		t.Fatalf("unknown status must be rejected")
	}
}

func TestComputeHours(t *testing.T) {
	route := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	work := route.Add(45 * time.Minute)
	done := work.Add(6*time.Hour + 30*time.Minute)

	drive, production, total := ComputeHours(&route, &work, &done)
	if drive == nil || *drive != 0.75 {
		t.Fatalf("drive = %v, want 0.75", drive)
	}
	if production == nil || *production != 6.5 {
		t.Fatalf("production = %v, want 6.5", production)
	}
	if total == nil || *total != 7.25 {
		t.Fatalf("total = %v, want 7.25", total)
	}
}

func TestComputeHoursMissingTimestamps(t *testing.T) {
	work := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	done := work.Add(2 * time.Hour)

	drive, production, total := ComputeHours(nil, &work, &done)
	if drive != nil {
		t.Fatalf("drive should be nil without route start")
	}
	if production == nil || *production != 2 {
		t.Fatalf("production = %v, want 2", production)
	}
	if total != nil {
		t.Fatalf("total should be nil without route start")
	}
}

func TestIsActive(t *testing.T) {
	if !IsActive(StatusInRoute) || !IsActive(StatusInProgress) {
		t.Fatalf("in_route and in_progress are active")
	}
	if IsActive(StatusScheduled) || IsActive(StatusCompleted) || IsActive(StatusCancelled) {
		t.Fatalf("only in_route and in_progress are active")
	}
}
