package jobs

import (
	"fmt"

	"github.com/google/uuid"
)

// ConflictError refuses an activating transition because the operator already
// has an active job. It carries the blocking job so the caller can surface
// its number, location and status.
type ConflictError struct {
	JobID     uuid.UUID `json:"job_id"`
	JobNumber string    `json:"job_number"`
	Address   string    `json:"address"`
	Status    Status    `json:"status"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("operator already has active job %s (%s, %s)", e.JobNumber, e.Address, e.Status)
}

// TransitionError refuses an illegal status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

// ActiveJob is the minimal view of a job used by the guard check.
type ActiveJob struct {
	ID        uuid.UUID
	JobNumber string
	Address   string
	Status    Status
}

// GuardTransition decides whether a job may move from -> to given the
// operator's other active jobs. Pure: the store fetches, this rules.
func GuardTransition(from, to Status, others []ActiveJob) error {
	if !ValidStatus(to) {
		return fmt.Errorf("unknown status %q", to)
	}
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	if IsActive(to) {
		for _, j := range others {
			if IsActive(j.Status) {
				return &ConflictError{JobID: j.ID, JobNumber: j.JobNumber, Address: j.Address, Status: j.Status}
			}
		}
	}
	return nil
}
