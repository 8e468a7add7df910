package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists workflow progress rows. The row for a job is created
// implicitly on the first RecordStep call.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get fetches the progress row for a job. A missing row is not an error:
// it returns a zero Progress (all flags false), which the sequencer treats
// as "first visit".
func (s *Store) Get(ctx context.Context, jobID uuid.UUID) (Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Progress
	var current string
	err := s.pool.QueryRow(ctx, `
		SELECT job_id, equipment_checklist_completed, sms_sent, jha_completed,
			silica_form_completed, work_performed_completed, pictures_submitted,
			customer_signature_received, current_step, eta_warning, updated_at
		FROM workflow_progress WHERE job_id = $1
	`, jobID).Scan(
		&p.JobID, &p.EquipmentChecklistCompleted, &p.SMSSent, &p.JHACompleted,
		&p.SilicaFormCompleted, &p.WorkPerformedCompleted, &p.PicturesSubmitted,
		&p.CustomerSignatureReceived, &current, &p.ETAWarning, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Progress{JobID: jobID, CurrentStep: StepEquipmentChecklist}, nil
		}
		return Progress{}, fmt.Errorf("get progress: %w", err)
	}
	p.CurrentStep = Step(current)
	return p, nil
}

// RecordStep upserts the progress row, marking the completed step and
// advancing current_step. Completion flags are OR-merged in SQL so the write
// is idempotent and a stale concurrent writer can never clear a flag that
// another tab already set.
func (s *Store) RecordStep(ctx context.Context, jobID uuid.UUID, completed, current Step, flags StepFlags) error {
	if !Valid(completed) {
		return fmt.Errorf("record step: unknown step %q", completed)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	p := Apply(Progress{JobID: jobID}, completed, current, flags)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO workflow_progress (
			job_id, equipment_checklist_completed, sms_sent, jha_completed,
			silica_form_completed, work_performed_completed, pictures_submitted,
			customer_signature_received, current_step, eta_warning
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (job_id) DO UPDATE SET
			equipment_checklist_completed = workflow_progress.equipment_checklist_completed OR EXCLUDED.equipment_checklist_completed,
			sms_sent                      = workflow_progress.sms_sent OR EXCLUDED.sms_sent,
			jha_completed                 = workflow_progress.jha_completed OR EXCLUDED.jha_completed,
			silica_form_completed         = workflow_progress.silica_form_completed OR EXCLUDED.silica_form_completed,
			work_performed_completed      = workflow_progress.work_performed_completed OR EXCLUDED.work_performed_completed,
			pictures_submitted            = workflow_progress.pictures_submitted OR EXCLUDED.pictures_submitted,
			customer_signature_received   = workflow_progress.customer_signature_received OR EXCLUDED.customer_signature_received,
			current_step                  = EXCLUDED.current_step,
			eta_warning                   = workflow_progress.eta_warning OR EXCLUDED.eta_warning,
			updated_at                    = now()
	`, p.JobID, p.EquipmentChecklistCompleted, p.SMSSent, p.JHACompleted,
		p.SilicaFormCompleted, p.WorkPerformedCompleted, p.PicturesSubmitted,
		p.CustomerSignatureReceived, string(p.CurrentStep), p.ETAWarning)
	if err != nil {
		return fmt.Errorf("record step: %w", err)
	}
	return nil
}
