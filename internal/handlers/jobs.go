// Job order handlers: dispatch CRUD and status transitions.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontifex/fieldops/internal/jobs"
	"github.com/pontifex/fieldops/internal/response"
)

// CreateJobRequest is the body for POST /jobs.
type CreateJobRequest struct {
	JobNumber     string  `json:"job_number" binding:"required"`
	Customer      string  `json:"customer" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	ContactName   string  `json:"contact_name"`
	ContactPhone  string  `json:"contact_phone"`
	OperatorID    *string `json:"operator_id"`
	ScheduledDate string  `json:"scheduled_date" binding:"required"` // YYYY-MM-DD
	ArrivalTime   string  `json:"arrival_time"`
}

// CreateJob dispatches a new job order. POST /jobs (admin).
func CreateJob(store *jobs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if _, err := time.Parse("2006-01-02", req.ScheduledDate); err != nil {
			response.Error(c, http.StatusBadRequest, "scheduled_date must be YYYY-MM-DD")
			return
		}
		var operatorID *uuid.UUID
		if req.OperatorID != nil && *req.OperatorID != "" {
			parsed, err := uuid.Parse(*req.OperatorID)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "operator_id must be a valid UUID")
				return
			}
			operatorID = &parsed
		}
		id, err := store.Create(c.Request.Context(), jobs.CreateInput{
			JobNumber:     req.JobNumber,
			Customer:      req.Customer,
			Address:       req.Address,
			ContactName:   req.ContactName,
			ContactPhone:  req.ContactPhone,
			OperatorID:    operatorID,
			ScheduledDate: req.ScheduledDate,
			ArrivalTime:   req.ArrivalTime,
		})
		if err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Success(c, http.StatusCreated, response.MsgCreated, gin.H{"id": id})
	}
}

// GetJob returns one job order. GET /jobs/:id.
func GetJob(store *jobs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		job, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				response.Error(c, http.StatusNotFound, "job not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, job)
	}
}

// ListJobs returns job orders filtered by operator/status/date. GET /jobs.
func ListJobs(store *jobs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f jobs.ListFilter
		if v := c.Query("operator_id"); v != "" {
			parsed, err := uuid.Parse(v)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "operator_id must be a valid UUID")
				return
			}
			f.OperatorID = &parsed
		}
		if v := c.Query("status"); v != "" {
			if !jobs.ValidStatus(jobs.Status(v)) {
				response.Error(c, http.StatusBadRequest, "unknown status")
				return
			}
			f.Status = jobs.Status(v)
		}
		f.Date = c.Query("date")
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
				f.Limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				f.Offset = n
			}
		}
		list, err := store.List(c.Request.Context(), f)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, list)
	}
}

// UpdateJobRequest is the body for PATCH /jobs/:id (all fields optional).
type UpdateJobRequest struct {
	Customer      *string `json:"customer"`
	Address       *string `json:"address"`
	ContactName   *string `json:"contact_name"`
	ContactPhone  *string `json:"contact_phone"`
	OperatorID    *string `json:"operator_id"`
	ScheduledDate *string `json:"scheduled_date"`
	ArrivalTime   *string `json:"arrival_time"`
}

// UpdateJob applies a partial dispatch edit. PATCH /jobs/:id (admin).
func UpdateJob(store *jobs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		var req UpdateJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		in := jobs.UpdateInput{
			Customer:      req.Customer,
			Address:       req.Address,
			ContactName:   req.ContactName,
			ContactPhone:  req.ContactPhone,
			ScheduledDate: req.ScheduledDate,
			ArrivalTime:   req.ArrivalTime,
		}
		if req.OperatorID != nil && *req.OperatorID != "" {
			parsed, err := uuid.Parse(*req.OperatorID)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "operator_id must be a valid UUID")
				return
			}
			in.OperatorID = &parsed
		}
		if req.ScheduledDate != nil {
			if _, err := time.Parse("2006-01-02", *req.ScheduledDate); err != nil {
				response.Error(c, http.StatusBadRequest, "scheduled_date must be YYYY-MM-DD")
				return
			}
		}
		if err := store.Update(c.Request.Context(), id, in); err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				response.Error(c, http.StatusNotFound, "job not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, nil)
	}
}

// SetStatusRequest is the body for POST /jobs/:id/status.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetJobStatus applies a status transition with the active-job guard.
// POST /jobs/:id/status. On conflict the blocking job's number, address and
// status are returned so the operator sees why the transition was refused.
func SetJobStatus(store *jobs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		var req SetStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "status is required")
			return
		}
		if !jobs.ValidStatus(jobs.Status(req.Status)) {
			response.Error(c, http.StatusBadRequest, "status must be scheduled, in_route, in_progress, completed or cancelled")
			return
		}
		job, err := store.SetStatus(c.Request.Context(), id, jobs.Status(req.Status), time.Now())
		if err != nil {
			var conflict *jobs.ConflictError
			if errors.As(err, &conflict) {
				response.Conflict(c, http.StatusConflict, "operator already has an active job", conflict)
				return
			}
			var transition *jobs.TransitionError
			if errors.As(err, &transition) {
				response.Error(c, http.StatusBadRequest, transition.Error())
				return
			}
			if errors.Is(err, jobs.ErrNotFound) {
				response.Error(c, http.StatusNotFound, "job not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, job)
	}
}
