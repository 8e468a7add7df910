// Package timecards records operator clock events and derives daily hours.
package timecards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventType names a timecard event.
type EventType string

const (
	EventClockIn      EventType = "clock_in"
	EventClockOut     EventType = "clock_out"
	EventInRoute      EventType = "in_route"
	EventStandbyStart EventType = "standby_start"
	EventStandbyStop  EventType = "standby_stop"
)

var validEvent = map[EventType]bool{
	EventClockIn: true, EventClockOut: true, EventInRoute: true,
	EventStandbyStart: true, EventStandbyStop: true,
}

// ValidEvent reports whether e is a known event type.
func ValidEvent(e EventType) bool { return validEvent[e] }

// StandardDayHours is the threshold beyond which hours count as overtime.
const StandardDayHours = 8.0

// Entry is one clock event, optionally tied to a job and a location fix.
type Entry struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	JobID     *uuid.UUID `json:"job_id,omitempty"`
	Event     EventType  `json:"event"`
	At        time.Time  `json:"at"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Accuracy  *float64   `json:"accuracy,omitempty"`
	Approved  bool       `json:"approved"`
	CreatedAt time.Time  `json:"created_at"`
}

// TotalHours is clock_out minus clock_in, rounded to two decimals.
// Negative spans clamp to zero.
func TotalHours(clockIn, clockOut time.Time) float64 {
	h := clockOut.Sub(clockIn).Hours()
	if h < 0 {
		h = 0
	}
	return float64(int(h*100+0.5)) / 100
}

// Overtime is the portion of total beyond the standard day.
func Overtime(total float64) float64 {
	if total <= StandardDayHours {
		return 0
	}
	return float64(int((total-StandardDayHours)*100+0.5)) / 100
}

// DaySummary aggregates one user's day.
type DaySummary struct {
	UserID     uuid.UUID  `json:"user_id"`
	Date       string     `json:"date"`
	ClockIn    *time.Time `json:"clock_in,omitempty"`
	ClockOut   *time.Time `json:"clock_out,omitempty"`
	TotalHours float64    `json:"total_hours"`
	Overtime   float64    `json:"overtime_hours"`
}

// ErrNotFound is returned when no entry matches.
var ErrNotFound = errors.New("timecard entry not found")

// Store persists timecard entries.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// RecordEvent appends a clock event. Satisfies workflow.EventRecorder.
func (s *Store) RecordEvent(ctx context.Context, userID uuid.UUID, jobID *uuid.UUID, event string, at time.Time) error {
	return s.Insert(ctx, Entry{UserID: userID, JobID: jobID, Event: EventType(event), At: at})
}

// Insert appends an entry.
func (s *Store) Insert(ctx context.Context, e Entry) error {
	if !ValidEvent(e.Event) {
		return fmt.Errorf("insert timecard: unknown event %q", e.Event)
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO timecard_entries (user_id, job_id, event, at, latitude, longitude, accuracy)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.UserID, e.JobID, string(e.Event), e.At, e.Latitude, e.Longitude, e.Accuracy)
	if err != nil {
		return fmt.Errorf("insert timecard: %w", err)
	}
	return nil
}

// ListByUser returns a user's entries within [from, to), newest first.
func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, job_id, event, at, latitude, longitude, accuracy, approved, created_at
		FROM timecard_entries
		WHERE user_id = $1 AND at >= $2 AND at < $3
		ORDER BY at DESC
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list timecards: %w", err)
	}
	defer rows.Close()

	list := []Entry{}
	for rows.Next() {
		var e Entry
		var event string
		if err := rows.Scan(&e.ID, &e.UserID, &e.JobID, &event, &e.At,
			&e.Latitude, &e.Longitude, &e.Accuracy, &e.Approved, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan timecard: %w", err)
		}
		e.Event = EventType(event)
		list = append(list, e)
	}
	return list, rows.Err()
}

// Summary computes a user's day from the first clock_in and last clock_out.
func (s *Store) Summary(ctx context.Context, userID uuid.UUID, date string) (DaySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sum := DaySummary{UserID: userID, Date: date}
	err := s.pool.QueryRow(ctx, `
		SELECT
			MIN(at) FILTER (WHERE event = 'clock_in'),
			MAX(at) FILTER (WHERE event = 'clock_out')
		FROM timecard_entries
		WHERE user_id = $1 AND at::date = $2::date
	`, userID, date).Scan(&sum.ClockIn, &sum.ClockOut)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return DaySummary{}, fmt.Errorf("timecard summary: %w", err)
	}
	if sum.ClockIn != nil && sum.ClockOut != nil {
		sum.TotalHours = TotalHours(*sum.ClockIn, *sum.ClockOut)
		sum.Overtime = Overtime(sum.TotalHours)
	}
	return sum, nil
}

// Approve flips the approval flag. One-way: there is no unapprove.
func (s *Store) Approve(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd, err := s.pool.Exec(ctx, `UPDATE timecard_entries SET approved = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("approve timecard: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
