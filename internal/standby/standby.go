// Package standby tracks operator idle intervals while waiting on-site.
// At most one open interval exists per operator+job pair.
package standby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrAlreadyOpen refuses a second open interval for the same operator+job.
	ErrAlreadyOpen = errors.New("standby already open for this job")
	// ErrNotOpen is returned by Stop when nothing is open.
	ErrNotOpen = errors.New("no open standby for this job")
)

// Log is one standby interval. EndedAt is nil while the interval is open.
type Log struct {
	ID            uuid.UUID  `json:"id"`
	JobID         uuid.UUID  `json:"job_id"`
	OperatorID    uuid.UUID  `json:"operator_id"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	DurationHours *float64   `json:"duration_hours,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

// DurationHours derives the interval length, rounded to two decimals.
func DurationHours(started, ended time.Time) float64 {
	h := ended.Sub(started).Hours()
	if h < 0 {
		h = 0
	}
	return float64(int(h*100+0.5)) / 100
}

// Store persists standby logs.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Start opens an interval. The partial unique index on (job_id, operator_id)
// WHERE ended_at IS NULL backs the one-open invariant.
func (s *Store) Start(ctx context.Context, jobID, operatorID uuid.UUID, reason string) (Log, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var l Log
	err := s.pool.QueryRow(ctx, `
		INSERT INTO standby_logs (job_id, operator_id, reason)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, job_id, operator_id, started_at
	`, jobID, operatorID, reason).Scan(&l.ID, &l.JobID, &l.OperatorID, &l.StartedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Log{}, ErrAlreadyOpen
		}
		return Log{}, fmt.Errorf("start standby: %w", err)
	}
	l.Reason = reason
	return l, nil
}

// Stop closes the open interval and stamps its derived duration.
func (s *Store) Stop(ctx context.Context, jobID, operatorID uuid.UUID) (Log, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var l Log
	var reason *string
	err := s.pool.QueryRow(ctx, `
		UPDATE standby_logs
		SET ended_at = now(),
			duration_hours = ROUND(EXTRACT(EPOCH FROM (now() - started_at)) / 3600.0, 2)
		WHERE job_id = $1 AND operator_id = $2 AND ended_at IS NULL
		RETURNING id, job_id, operator_id, started_at, ended_at, duration_hours, reason
	`, jobID, operatorID).Scan(&l.ID, &l.JobID, &l.OperatorID, &l.StartedAt, &l.EndedAt, &l.DurationHours, &reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Log{}, ErrNotOpen
		}
		return Log{}, fmt.Errorf("stop standby: %w", err)
	}
	if reason != nil {
		l.Reason = *reason
	}
	return l, nil
}

// HasOpen reports whether an open interval exists for the operator+job pair.
// Satisfies workflow.StandbyChecker.
func (s *Store) HasOpen(ctx context.Context, jobID, operatorID uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var one int
	err := s.pool.QueryRow(ctx, `
		SELECT 1 FROM standby_logs
		WHERE job_id = $1 AND operator_id = $2 AND ended_at IS NULL
	`, jobID, operatorID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("standby check: %w", err)
	}
	return true, nil
}

// ListByJob returns a job's intervals, newest first.
func (s *Store) ListByJob(ctx context.Context, jobID uuid.UUID) ([]Log, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, job_id, operator_id, started_at, ended_at, duration_hours, reason
		FROM standby_logs WHERE job_id = $1
		ORDER BY started_at DESC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list standby: %w", err)
	}
	defer rows.Close()

	list := []Log{}
	for rows.Next() {
		var l Log
		var reason *string
		if err := rows.Scan(&l.ID, &l.JobID, &l.OperatorID, &l.StartedAt, &l.EndedAt, &l.DurationHours, &reason); err != nil {
			return nil, fmt.Errorf("scan standby: %w", err)
		}
		if reason != nil {
			l.Reason = *reason
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
