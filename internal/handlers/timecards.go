// Timecard handlers: clock events, listing, day summary, approval.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontifex/fieldops/internal/middleware"
	"github.com/pontifex/fieldops/internal/response"
	"github.com/pontifex/fieldops/internal/timecards"
)

// RecordTimecardRequest is the body for POST /timecards. A missing "at"
// defaults to server time; geolocation fields are optional.
type RecordTimecardRequest struct {
	JobID     string   `json:"job_id"`
	Event     string   `json:"event" binding:"required"`
	At        string   `json:"at"` // RFC3339
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
}

// RecordTimecard inserts a clock event for the authenticated user.
func RecordTimecard(store *timecards.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordTimecardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "event is required")
			return
		}
		event := timecards.EventType(req.Event)
		if !timecards.ValidEvent(event) {
			response.Error(c, http.StatusBadRequest, "event must be clock_in, clock_out, in_route, standby_start or standby_stop")
			return
		}
		at := time.Now().UTC()
		if req.At != "" {
			parsed, err := time.Parse(time.RFC3339, req.At)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "at must be RFC3339")
				return
			}
			at = parsed
		}
		entry := timecards.Entry{
			UserID:    middleware.UserIDFrom(c.Request.Context()),
			Event:     event,
			At:        at,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Accuracy:  req.Accuracy,
		}
		if req.JobID != "" {
			jobID, err := uuid.Parse(req.JobID)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "invalid job_id")
				return
			}
			entry.JobID = &jobID
		}
		if err := store.Insert(c.Request.Context(), entry); err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusCreated, response.MsgCreated, nil)
	}
}

// ListTimecards returns the authenticated user's entries in
// [?from, ?to] (RFC3339 date-times, from defaults to 7 days back).
func ListTimecards(store *timecards.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UTC()
		from := now.AddDate(0, 0, -7)
		to := now
		var err error
		if v := c.Query("from"); v != "" {
			from, err = time.Parse(time.RFC3339, v)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "from must be RFC3339")
				return
			}
		}
		if v := c.Query("to"); v != "" {
			to, err = time.Parse(time.RFC3339, v)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "to must be RFC3339")
				return
			}
		}
		entries, err := store.ListByUser(c.Request.Context(), middleware.UserIDFrom(c.Request.Context()), from, to)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, entries)
	}
}

// TimecardSummary returns one day's clock span and hours for the
// authenticated user. GET /timecards/summary?date=2025-06-02.
func TimecardSummary(store *timecards.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		} else if _, err := time.Parse("2006-01-02", date); err != nil {
			response.Error(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		summary, err := store.Summary(c.Request.Context(), middleware.UserIDFrom(c.Request.Context()), date)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, summary)
	}
}

// ApproveTimecard marks an entry approved. Admin only.
// POST /timecards/:id/approve.
func ApproveTimecard(store *timecards.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		if err := store.Approve(c.Request.Context(), id); err != nil {
			if errors.Is(err, timecards.ErrNotFound) {
				response.Error(c, http.StatusNotFound, "timecard entry not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, nil)
	}
}
