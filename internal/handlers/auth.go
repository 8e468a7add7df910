// Auth handlers: phone + password login issuing JWT access/refresh tokens.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontifex/fieldops/internal/operators"
	"github.com/pontifex/fieldops/internal/response"
	"github.com/pontifex/fieldops/internal/security"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues tokens. POST /auth/login.
func Login(store *operators.Store, jwtm *security.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "phone and password are required")
			return
		}
		op, err := store.GetByPhone(c.Request.Context(), req.Phone)
		if err != nil {
			if errors.Is(err, operators.ErrNotFound) {
				response.Error(c, http.StatusUnauthorized, "invalid phone or password")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !op.CheckPassword(req.Password) {
			response.Error(c, http.StatusUnauthorized, "invalid phone or password")
			return
		}
		tokens, err := jwtm.Issue(op.Role, op.ID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
			"tokens": tokens,
			"user": gin.H{
				"id":         op.ID,
				"first_name": op.FirstName,
				"last_name":  op.LastName,
				"role":       op.Role,
			},
		})
	}
}

// RefreshRequest is the body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a valid refresh token for fresh tokens. POST /auth/refresh.
func Refresh(jwtm *security.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "refresh_token is required")
			return
		}
		claims, err := jwtm.ParseRefresh(req.RefreshToken)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired refresh token")
			return
		}
		uid, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid refresh token subject")
			return
		}
		tokens, err := jwtm.Issue(claims.Role, uid)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"tokens": tokens})
	}
}
