package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrStandbyOpen blocks workflow progression while the operator has an open
// standby interval on the job. Advisory policy, enforced here rather than by
// a database constraint.
var ErrStandbyOpen = errors.New("standby is open for this job")

// ProgressStore is the reader/writer contract for workflow progress rows.
type ProgressStore interface {
	Get(ctx context.Context, jobID uuid.UUID) (Progress, error)
	RecordStep(ctx context.Context, jobID uuid.UUID, completed, current Step, flags StepFlags) error
}

// Notifier sends a message to a phone number at most once per key.
// Implementations never block progression: a failed send reports false.
type Notifier interface {
	SendOnce(ctx context.Context, key, phone, body string) bool
}

// StandbyChecker reports whether an open standby log exists for the
// operator+job pair.
type StandbyChecker interface {
	HasOpen(ctx context.Context, jobID, operatorID uuid.UUID) (bool, error)
}

// EventRecorder appends a timecard event (the in-route submit logs one).
type EventRecorder interface {
	RecordEvent(ctx context.Context, operatorID uuid.UUID, jobID *uuid.UUID, event string, at time.Time) error
}

// Service orchestrates step submissions: validate, perform the domain effect,
// then write progress. Side effects are at-least-once — a progress write
// failing after a notification went out is not compensated.
type Service struct {
	store    ProgressStore
	notifier Notifier
	standby  StandbyChecker
	events   EventRecorder
	logger   *zap.Logger
}

func NewService(store ProgressStore, notifier Notifier, standby StandbyChecker, events EventRecorder, logger *zap.Logger) *Service {
	return &Service{store: store, notifier: notifier, standby: standby, events: events, logger: logger}
}

// Snapshot returns the progress record and the step the operator should be
// on. Read failures are non-fatal: they are logged and an empty progress is
// returned so the page can still render.
func (s *Service) Snapshot(ctx context.Context, jobID uuid.UUID) (Progress, Step) {
	p, err := s.store.Get(ctx, jobID)
	if err != nil {
		s.logger.Warn("progress read failed, rendering with empty progress",
			zap.String("job_id", jobID.String()), zap.Error(err))
		p = Progress{JobID: jobID, CurrentStep: StepEquipmentChecklist}
	}
	return p, NextStep(p)
}

// SubmitStepInput is a generic step completion.
type SubmitStepInput struct {
	JobID      uuid.UUID
	OperatorID uuid.UUID
	Completed  Step
	Flags      StepFlags
}

// SubmitResult reports the persisted outcome and where the UI goes next.
type SubmitResult struct {
	Progress Progress `json:"progress"`
	Next     Step     `json:"next_step"`
	SMSSent  bool     `json:"sms_sent"`
	Warning  bool     `json:"eta_warning"`
}

// SubmitStep marks a step done and advances current_step. Idempotent: a
// repeated submit re-sets flags that are already true.
func (s *Service) SubmitStep(ctx context.Context, in SubmitStepInput) (SubmitResult, error) {
	if !Valid(in.Completed) || in.Completed == StepCompleteJob {
		return SubmitResult{}, fmt.Errorf("submit step: %q is not a submittable step", in.Completed)
	}
	if err := s.checkStandby(ctx, in.JobID, in.OperatorID); err != nil {
		return SubmitResult{}, err
	}
	current := Following(in.Completed)
	if err := s.store.RecordStep(ctx, in.JobID, in.Completed, current, in.Flags); err != nil {
		return SubmitResult{}, err
	}
	p, err := s.store.Get(ctx, in.JobID)
	if err != nil {
		p = Apply(Progress{JobID: in.JobID}, in.Completed, current, in.Flags)
	}
	return SubmitResult{Progress: p, Next: NextStep(p), SMSSent: p.SMSSent, Warning: p.ETAWarning}, nil
}

// InRouteInput is the in-route step submission: the captured "now", the
// operator-edited timestamp and the on-site contact.
type InRouteInput struct {
	JobID        uuid.UUID
	OperatorID   uuid.UUID
	CapturedAt   time.Time
	ConfirmedAt  time.Time
	ContactName  string
	ContactPhone string
	JobNumber    string
	Address      string
}

// SubmitInRoute applies the in-route transition rule: within the ETA skew the
// contact is texted and sms_sent records the dispatch; beyond it no text goes
// out, a warning is surfaced and the step still moves forward — the sequencer
// will re-offer in-route because sms_sent stays false.
//
// Effect order is fixed: timecard event, notification, then progress write.
// Nothing is rolled back if a later effect fails.
func (s *Service) SubmitInRoute(ctx context.Context, in InRouteInput) (SubmitResult, error) {
	if err := s.checkStandby(ctx, in.JobID, in.OperatorID); err != nil {
		return SubmitResult{}, err
	}
	confirmed := in.ConfirmedAt
	if confirmed.IsZero() {
		confirmed = in.CapturedAt
	}
	decision := DecideInRoute(in.CapturedAt, confirmed)

	jobID := in.JobID
	if err := s.events.RecordEvent(ctx, in.OperatorID, &jobID, "in_route", confirmed); err != nil {
		s.logger.Warn("in-route timecard event failed",
			zap.String("job_id", in.JobID.String()), zap.Error(err))
	}

	sent := false
	if decision.Notify && in.ContactPhone != "" {
		key := "notify:" + in.JobID.String() + ":" + string(StepInRoute)
		body := fmt.Sprintf("Pontifex Industries: your operator is en route to %s (job %s), ETA around %s.",
			in.Address, in.JobNumber, confirmed.Format("3:04 PM"))
		sent = s.notifier.SendOnce(ctx, key, in.ContactPhone, body)
	}

	flags := StepFlags{SMSSent: sent, ETAWarning: decision.Warn}
	current := Following(StepInRoute)
	if err := s.store.RecordStep(ctx, in.JobID, StepInRoute, current, flags); err != nil {
		return SubmitResult{}, err
	}
	p, err := s.store.Get(ctx, in.JobID)
	if err != nil {
		p = Apply(Progress{JobID: in.JobID}, StepInRoute, current, flags)
	}
	return SubmitResult{Progress: p, Next: NextStep(p), SMSSent: sent, Warning: decision.Warn}, nil
}

func (s *Service) checkStandby(ctx context.Context, jobID, operatorID uuid.UUID) error {
	open, err := s.standby.HasOpen(ctx, jobID, operatorID)
	if err != nil {
		// Advisory check only; a failed lookup never blocks the operator.
		s.logger.Warn("standby check failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return nil
	}
	if open {
		return ErrStandbyOpen
	}
	return nil
}
