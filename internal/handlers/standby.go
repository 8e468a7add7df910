// Standby handlers: open, close and list standby intervals per job.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontifex/fieldops/internal/middleware"
	"github.com/pontifex/fieldops/internal/response"
	"github.com/pontifex/fieldops/internal/standby"
)

// StartStandbyRequest is the body for POST /jobs/:id/standby/start.
type StartStandbyRequest struct {
	Reason string `json:"reason"`
}

// StartStandby opens a standby interval for the authenticated operator.
func StartStandby(store *standby.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		var req StartStandbyRequest
		// body is optional
		_ = c.ShouldBindJSON(&req)
		log, err := store.Start(c.Request.Context(), jobID, middleware.UserIDFrom(c.Request.Context()), req.Reason)
		if err != nil {
			if errors.Is(err, standby.ErrAlreadyOpen) {
				response.Error(c, http.StatusConflict, "standby already open for this job")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusCreated, response.MsgCreated, log)
	}
}

// StopStandby closes the open standby interval and returns it with the
// computed duration.
func StopStandby(store *standby.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		log, err := store.Stop(c.Request.Context(), jobID, middleware.UserIDFrom(c.Request.Context()))
		if err != nil {
			if errors.Is(err, standby.ErrNotOpen) {
				response.Error(c, http.StatusNotFound, "no open standby for this job")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, log)
	}
}

// ListStandby returns all standby intervals recorded against a job.
func ListStandby(store *standby.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		logs, err := store.ListByJob(c.Request.Context(), jobID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, logs)
	}
}
