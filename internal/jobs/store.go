package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no job order matches.
var ErrNotFound = errors.New("job order not found")

// Store persists job orders.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const jobColumns = `
	id, job_number, customer, address, contact_name, contact_phone,
	operator_id, scheduled_date::text, arrival_time, status,
	route_started_at, work_started_at, work_completed_at,
	drive_hours, production_hours, total_hours, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (JobOrder, error) {
	var j JobOrder
	var status string
	var contactName, contactPhone, arrivalTime *string
	err := row.Scan(
		&j.ID, &j.JobNumber, &j.Customer, &j.Address, &contactName, &contactPhone,
		&j.OperatorID, &j.ScheduledDate, &arrivalTime, &status,
		&j.RouteStartedAt, &j.WorkStartedAt, &j.WorkCompletedAt,
		&j.DriveHours, &j.ProductionHours, &j.TotalHours, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return JobOrder{}, err
	}
	j.Status = Status(status)
	if contactName != nil {
		j.ContactName = *contactName
	}
	if contactPhone != nil {
		j.ContactPhone = *contactPhone
	}
	if arrivalTime != nil {
		j.ArrivalTime = *arrivalTime
	}
	return j, nil
}

// CreateInput is the dispatch form for a new job order.
type CreateInput struct {
	JobNumber     string
	Customer      string
	Address       string
	ContactName   string
	ContactPhone  string
	OperatorID    *uuid.UUID
	ScheduledDate string
	ArrivalTime   string
}

// Create inserts a new job order in scheduled state.
func (s *Store) Create(ctx context.Context, in CreateInput) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO job_orders (job_number, customer, address, contact_name, contact_phone, operator_id, scheduled_date, arrival_time)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7::date, NULLIF($8, ''))
		RETURNING id
	`, in.JobNumber, in.Customer, in.Address, in.ContactName, in.ContactPhone, in.OperatorID, in.ScheduledDate, in.ArrivalTime).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("job_number already exists")
		}
		return uuid.Nil, fmt.Errorf("create job: %w", err)
	}
	return id, nil
}

// Get returns one job order by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (JobOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM job_orders WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JobOrder{}, ErrNotFound
		}
		return JobOrder{}, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// ListFilter narrows List results; zero values mean "any".
type ListFilter struct {
	OperatorID *uuid.UUID
	Status     Status
	Date       string // YYYY-MM-DD
	Limit      int
	Offset     int
}

// List returns job orders, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]JobOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var where []string
	var args []any
	n := 1
	if f.OperatorID != nil {
		where = append(where, "operator_id = $"+strconv.Itoa(n))
		args = append(args, *f.OperatorID)
		n++
	}
	if f.Status != "" {
		where = append(where, "status = $"+strconv.Itoa(n))
		args = append(args, string(f.Status))
		n++
	}
	if f.Date != "" {
		where = append(where, "scheduled_date = $"+strconv.Itoa(n)+"::date")
		args = append(args, f.Date)
		n++
	}
	q := `SELECT ` + jobColumns + ` FROM job_orders`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q += ` ORDER BY scheduled_date DESC, created_at DESC LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)
	args = append(args, limit, f.Offset)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	list := []JobOrder{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// UpdateInput carries optional dispatch-editable fields for a partial update.
type UpdateInput struct {
	Customer      *string
	Address       *string
	ContactName   *string
	ContactPhone  *string
	OperatorID    *uuid.UUID
	ScheduledDate *string
	ArrivalTime   *string
}

// Update applies non-nil fields. Status is not touched here; use SetStatus.
func (s *Store) Update(ctx context.Context, id uuid.UUID, in UpdateInput) error {
	var set []string
	var args []any
	n := 1
	add := func(col string, v any) {
		set = append(set, col+" = $"+strconv.Itoa(n))
		args = append(args, v)
		n++
	}
	if in.Customer != nil {
		add("customer", *in.Customer)
	}
	if in.Address != nil {
		add("address", *in.Address)
	}
	if in.ContactName != nil {
		add("contact_name", *in.ContactName)
	}
	if in.ContactPhone != nil {
		add("contact_phone", *in.ContactPhone)
	}
	if in.OperatorID != nil {
		add("operator_id", *in.OperatorID)
	}
	if in.ScheduledDate != nil {
		add("scheduled_date", *in.ScheduledDate)
	}
	if in.ArrivalTime != nil {
		add("arrival_time", *in.ArrivalTime)
	}
	if len(set) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	args = append(args, id)
	cmd, err := s.pool.Exec(ctx, `UPDATE job_orders SET `+strings.Join(set, ", ")+`, updated_at = now() WHERE id = $`+strconv.Itoa(n), args...)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus applies a status transition with the one-active-job-per-operator
// guard. An activating transition is refused with ConflictError when the
// operator already runs another job in in_route or in_progress. Transition
// timestamps are stamped and completion hours computed on the way out.
//
// The guard is read-check-then-write without a lock; with a single operator
// per account the window is accepted.
func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, to Status, now time.Time) (JobOrder, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return JobOrder{}, err
	}

	var others []ActiveJob
	if IsActive(to) && job.OperatorID != nil {
		others, err = s.activeJobsFor(ctx, *job.OperatorID, id)
		if err != nil {
			return JobOrder{}, err
		}
	}
	if err := GuardTransition(job.Status, to, others); err != nil {
		return JobOrder{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	set := []string{"status = $1", "updated_at = now()"}
	args := []any{string(to)}
	n := 2
	stamp := func(col string, t time.Time) {
		set = append(set, col+" = $"+strconv.Itoa(n))
		args = append(args, t)
		n++
	}
	switch to {
	case StatusInRoute:
		stamp("route_started_at", now)
	case StatusInProgress:
		stamp("work_started_at", now)
	case StatusCompleted:
		stamp("work_completed_at", now)
		complete := now
		drive, production, total := ComputeHours(job.RouteStartedAt, job.WorkStartedAt, &complete)
		set = append(set, "drive_hours = $"+strconv.Itoa(n), "production_hours = $"+strconv.Itoa(n+1), "total_hours = $"+strconv.Itoa(n+2))
		args = append(args, drive, production, total)
		n += 3
	}
	args = append(args, id)
	cmd, err := s.pool.Exec(ctx, `UPDATE job_orders SET `+strings.Join(set, ", ")+` WHERE id = $`+strconv.Itoa(n), args...)
	if err != nil {
		return JobOrder{}, fmt.Errorf("set status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return JobOrder{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// activeJobsFor lists the operator's other jobs in a non-terminal active status.
func (s *Store) activeJobsFor(ctx context.Context, operatorID, excludeJob uuid.UUID) ([]ActiveJob, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, job_number, address, status
		FROM job_orders
		WHERE operator_id = $1 AND id <> $2 AND status IN ('in_route', 'in_progress')
	`, operatorID, excludeJob)
	if err != nil {
		return nil, fmt.Errorf("active jobs: %w", err)
	}
	defer rows.Close()

	var list []ActiveJob
	for rows.Next() {
		var j ActiveJob
		var status string
		if err := rows.Scan(&j.ID, &j.JobNumber, &j.Address, &status); err != nil {
			return nil, err
		}
		j.Status = Status(status)
		list = append(list, j)
	}
	return list, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
