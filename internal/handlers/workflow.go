// Workflow handlers: progress snapshot and step submissions.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontifex/fieldops/internal/jobs"
	"github.com/pontifex/fieldops/internal/middleware"
	"github.com/pontifex/fieldops/internal/response"
	"github.com/pontifex/fieldops/internal/workflow"
)

// GetWorkflow returns the progress record, the sequencer's next step and the
// forward-redirect resolution for an optional ?step= the client is rendering.
// GET /jobs/:id/workflow.
func GetWorkflow(svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		progress, next := svc.Snapshot(c.Request.Context(), jobID)
		data := gin.H{"progress": progress, "next_step": next}
		if requested := c.Query("step"); requested != "" {
			data["resolved_step"] = workflow.Resolve(workflow.Step(requested), progress)
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, data)
	}
}

// RecordStepRequest is the body for POST /jobs/:id/workflow.
type RecordStepRequest struct {
	CompletedStep string `json:"completed_step" binding:"required"`
	SMSSent       bool   `json:"sms_sent"`
}

// RecordStep marks a step done and advances current_step.
// POST /jobs/:id/workflow.
func RecordStep(svc *workflow.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		var req RecordStepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "completed_step is required")
			return
		}
		res, err := svc.SubmitStep(c.Request.Context(), workflow.SubmitStepInput{
			JobID:      jobID,
			OperatorID: middleware.UserIDFrom(c.Request.Context()),
			Completed:  workflow.Step(req.CompletedStep),
			Flags:      workflow.StepFlags{SMSSent: req.SMSSent},
		})
		if err != nil {
			if errors.Is(err, workflow.ErrStandbyOpen) {
				response.Error(c, http.StatusConflict, "stop standby before continuing the workflow")
				return
			}
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, res)
	}
}

// InRouteRequest is the body for POST /jobs/:id/workflow/in-route. The
// captured timestamp is the client's "now" at page load; the confirmed one is
// operator-editable and defaults to captured.
type InRouteRequest struct {
	CapturedAt  string `json:"captured_at" binding:"required"` // RFC3339
	ConfirmedAt string `json:"confirmed_at"`                   // RFC3339
}

// SubmitInRoute runs the in-route transition rule: ETA gate, contact
// notification, timecard event, progress write.
// POST /jobs/:id/workflow/in-route.
func SubmitInRoute(svc *workflow.Service, jobStore *jobs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		var req InRouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "captured_at is required")
			return
		}
		captured, err := time.Parse(time.RFC3339, req.CapturedAt)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "captured_at must be RFC3339 (e.g. 2025-06-02T08:00:00Z)")
			return
		}
		confirmed := captured
		if req.ConfirmedAt != "" {
			confirmed, err = time.Parse(time.RFC3339, req.ConfirmedAt)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "confirmed_at must be RFC3339")
				return
			}
		}
		job, err := jobStore.Get(c.Request.Context(), jobID)
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				response.Error(c, http.StatusNotFound, "job not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		res, err := svc.SubmitInRoute(c.Request.Context(), workflow.InRouteInput{
			JobID:        jobID,
			OperatorID:   middleware.UserIDFrom(c.Request.Context()),
			CapturedAt:   captured,
			ConfirmedAt:  confirmed,
			ContactName:  job.ContactName,
			ContactPhone: job.ContactPhone,
			JobNumber:    job.JobNumber,
			Address:      job.Address,
		})
		if err != nil {
			if errors.Is(err, workflow.ErrStandbyOpen) {
				response.Error(c, http.StatusConflict, "stop standby before continuing the workflow")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, res)
	}
}
