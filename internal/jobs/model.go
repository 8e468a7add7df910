// Package jobs holds job orders: dispatch records, status transitions and the
// one-active-job-per-operator guard.
package jobs

import (
	"time"

	"github.com/google/uuid"
)

// Status is the job order lifecycle state.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInRoute    Status = "in_route"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var validStatus = map[Status]bool{
	StatusScheduled: true, StatusInRoute: true, StatusInProgress: true,
	StatusCompleted: true, StatusCancelled: true,
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s Status) bool { return validStatus[s] }

// IsActive reports whether the status counts against the one-active-job
// invariant.
func IsActive(s Status) bool { return s == StatusInRoute || s == StatusInProgress }

// IsTerminal reports whether the status ends the lifecycle.
func IsTerminal(s Status) bool { return s == StatusCompleted || s == StatusCancelled }

// transitions is the legal status transition matrix.
var transitions = map[Status][]Status{
	StatusScheduled:  {StatusInRoute, StatusCancelled},
	StatusInRoute:    {StatusInProgress, StatusScheduled, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from -> to is a legal transition.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// JobOrder is one scheduled unit of work assigned to an operator.
type JobOrder struct {
	ID              uuid.UUID  `json:"id"`
	JobNumber       string     `json:"job_number"`
	Customer        string     `json:"customer"`
	Address         string     `json:"address"`
	ContactName     string     `json:"contact_name,omitempty"`
	ContactPhone    string     `json:"contact_phone,omitempty"`
	OperatorID      *uuid.UUID `json:"operator_id,omitempty"`
	ScheduledDate   string     `json:"scheduled_date"` // YYYY-MM-DD
	ArrivalTime     string     `json:"arrival_time,omitempty"`
	Status          Status     `json:"status"`
	RouteStartedAt  *time.Time `json:"route_started_at,omitempty"`
	WorkStartedAt   *time.Time `json:"work_started_at,omitempty"`
	WorkCompletedAt *time.Time `json:"work_completed_at,omitempty"`
	DriveHours      *float64   `json:"drive_hours,omitempty"`
	ProductionHours *float64   `json:"production_hours,omitempty"`
	TotalHours      *float64   `json:"total_hours,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ComputeHours derives drive/production/total hours from the transition
// timestamps. Missing timestamps leave the corresponding figure nil.
func ComputeHours(routeStart, workStart, workComplete *time.Time) (drive, production, total *float64) {
	hours := func(from, to time.Time) *float64 {
		h := to.Sub(from).Hours()
		if h < 0 {
			h = 0
		}
		h = float64(int(h*100+0.5)) / 100
		return &h
	}
	if routeStart != nil && workStart != nil {
		drive = hours(*routeStart, *workStart)
	}
	if workStart != nil && workComplete != nil {
		production = hours(*workStart, *workComplete)
	}
	if routeStart != nil && workComplete != nil {
		total = hours(*routeStart, *workComplete)
	}
	return drive, production, total
}
