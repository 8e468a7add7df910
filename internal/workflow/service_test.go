package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memStore struct {
	rows    map[uuid.UUID]Progress
	getErr  error
	writes  int
}

func newMemStore() *memStore { return &memStore{rows: map[uuid.UUID]Progress{}} }

func (m *memStore) Get(_ context.Context, jobID uuid.UUID) (Progress, error) {
	if m.getErr != nil {
		return Progress{}, m.getErr
	}
	p, ok := m.rows[jobID]
	if !ok {
		return Progress{JobID: jobID, CurrentStep: StepEquipmentChecklist}, nil
	}
	return p, nil
}

func (m *memStore) RecordStep(_ context.Context, jobID uuid.UUID, completed, current Step, flags StepFlags) error {
	m.writes++
	p, ok := m.rows[jobID]
	if !ok {
		p = Progress{JobID: jobID}
	}
	m.rows[jobID] = Apply(p, completed, current, flags)
	return nil
}

type memNotifier struct {
	sent map[string]string // key -> phone
	fail bool
}

func newMemNotifier() *memNotifier { return &memNotifier{sent: map[string]string{}} }

func (m *memNotifier) SendOnce(_ context.Context, key, phone, _ string) bool {
	if m.fail {
		return false
	}
	if _, dup := m.sent[key]; dup {
		return true
	}
	m.sent[key] = phone
	return true
}

type memStandby struct{ open bool }

func (m *memStandby) HasOpen(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return m.open, nil
}

type memEvents struct{ events []string }

func (m *memEvents) RecordEvent(_ context.Context, _ uuid.UUID, _ *uuid.UUID, event string, _ time.Time) error {
	m.events = append(m.events, event)
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore, *memNotifier, *memStandby, *memEvents) {
	t.Helper()
	store := newMemStore()
	notifier := newMemNotifier()
	standby := &memStandby{}
	events := &memEvents{}
	svc := NewService(store, notifier, standby, events, zap.NewNop())
	return svc, store, notifier, standby, events
}

func TestSubmitChecklistAdvancesToInRoute(t *testing.T) {
	svc, store, _, _, _ := newTestService(t)
	jobID := uuid.New()

	res, err := svc.SubmitStep(context.Background(), SubmitStepInput{
		JobID: jobID, OperatorID: uuid.New(), Completed: StepEquipmentChecklist,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Progress.EquipmentChecklistCompleted {
		t.Fatalf("checklist flag not set")
	}
	if res.Progress.CurrentStep != StepInRoute {
		t.Fatalf("current_step = %s, want %s", res.Progress.CurrentStep, StepInRoute)
	}
	// Reloading the in-route page must not redirect past it: sms_sent is false.
	p, next := svc.Snapshot(context.Background(), jobID)
	if p.SMSSent {
		t.Fatalf("sms_sent unexpectedly true")
	}
	if next != StepInRoute {
		t.Fatalf("next = %s, want %s", next, StepInRoute)
	}
	if store.writes != 1 {
		t.Fatalf("writes = %d, want 1", store.writes)
	}
}

func TestSubmitStepIdempotent(t *testing.T) {
	svc, store, _, _, _ := newTestService(t)
	jobID := uuid.New()
	in := SubmitStepInput{JobID: jobID, OperatorID: uuid.New(), Completed: StepEquipmentChecklist}

	if _, err := svc.SubmitStep(context.Background(), in); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	res, err := svc.SubmitStep(context.Background(), in)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !res.Progress.EquipmentChecklistCompleted {
		t.Fatalf("flag toggled by repeat submit")
	}
	if store.writes != 2 {
		t.Fatalf("writes = %d, want 2 (two write calls, same state)", store.writes)
	}
}

func TestSubmitInRouteNotifiesWithinSkew(t *testing.T) {
	svc, _, notifier, _, events := newTestService(t)
	jobID := uuid.New()
	captured := time.Now()

	res, err := svc.SubmitInRoute(context.Background(), InRouteInput{
		JobID: jobID, OperatorID: uuid.New(),
		CapturedAt: captured, ConfirmedAt: captured.Add(5 * time.Minute),
		ContactPhone: "+15551234567", JobNumber: "J-1042", Address: "114 Mill Rd",
	})
	if err != nil {
		t.Fatalf("submit in-route: %v", err)
	}
	if !res.SMSSent {
		t.Fatalf("expected sms dispatched")
	}
	if res.Warning {
		t.Fatalf("unexpected warning")
	}
	if !res.Progress.SMSSent {
		t.Fatalf("sms_sent flag not persisted")
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(notifier.sent))
	}
	if len(events.events) != 1 || events.events[0] != "in_route" {
		t.Fatalf("timecard event missing: %v", events.events)
	}
}

func TestSubmitInRouteStaleETASkipsNotification(t *testing.T) {
	svc, _, notifier, _, _ := newTestService(t)
	jobID := uuid.New()
	captured := time.Now()

	res, err := svc.SubmitInRoute(context.Background(), InRouteInput{
		JobID: jobID, OperatorID: uuid.New(),
		CapturedAt: captured, ConfirmedAt: captured.Add(20 * time.Minute),
		ContactPhone: "+15551234567", JobNumber: "J-1042", Address: "114 Mill Rd",
	})
	if err != nil {
		t.Fatalf("submit in-route: %v", err)
	}
	if res.SMSSent {
		t.Fatalf("sms must not be dispatched for a 20-minute edit")
	}
	if !res.Warning {
		t.Fatalf("expected eta warning")
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("sends = %d, want 0", len(notifier.sent))
	}
	// The step UI moved forward even though sms_sent stayed false:
	// current_step advanced, but the sequencer still holds at in_route.
	if res.Progress.CurrentStep != StepJobHazardAnalysis {
		t.Fatalf("current_step = %s, want %s", res.Progress.CurrentStep, StepJobHazardAnalysis)
	}
	if res.Progress.SMSSent {
		t.Fatalf("sms_sent must stay false")
	}
	if next := NextStep(res.Progress); next != StepInRoute {
		t.Fatalf("sequencer next = %s, want %s", next, StepInRoute)
	}
}

func TestSubmitInRouteDeduplicatesNotification(t *testing.T) {
	svc, _, notifier, _, _ := newTestService(t)
	jobID := uuid.New()
	captured := time.Now()
	in := InRouteInput{
		JobID: jobID, OperatorID: uuid.New(),
		CapturedAt: captured, ConfirmedAt: captured,
		ContactPhone: "+15551234567", JobNumber: "J-1", Address: "1 Main St",
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitInRoute(context.Background(), in); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("contact texted %d times, want 1", len(notifier.sent))
	}
}

func TestSubmitBlockedByOpenStandby(t *testing.T) {
	svc, _, _, standby, _ := newTestService(t)
	standby.open = true

	_, err := svc.SubmitStep(context.Background(), SubmitStepInput{
		JobID: uuid.New(), OperatorID: uuid.New(), Completed: StepSilicaForm,
	})
	if !errors.Is(err, ErrStandbyOpen) {
		t.Fatalf("expected ErrStandbyOpen, got %v", err)
	}
}

func TestSnapshotSurvivesReadFailure(t *testing.T) {
	svc, store, _, _, _ := newTestService(t)
	store.getErr = errors.New("connection refused")

	p, next := svc.Snapshot(context.Background(), uuid.New())
	if next != StepEquipmentChecklist {
		t.Fatalf("expected first step on read failure, got %s", next)
	}
	if p.Done(StepEquipmentChecklist) {
		t.Fatalf("expected empty progress on read failure")
	}
}

func TestSubmitTerminalStepRejected(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	if _, err := svc.SubmitStep(context.Background(), SubmitStepInput{
		JobID: uuid.New(), OperatorID: uuid.New(), Completed: StepCompleteJob,
	}); err == nil {
		t.Fatalf("complete_job must not be submittable as a flag step")
	}
	if _, err := svc.SubmitStep(context.Background(), SubmitStepInput{
		JobID: uuid.New(), OperatorID: uuid.New(), Completed: Step("bogus"),
	}); err == nil {
		t.Fatalf("unknown step must be rejected")
	}
}
