// Context keys and getters for request_id, user_id and role.
package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyUserID    contextKey = "user_id" // set by AuthMiddleware
	ContextKeyRole      contextKey = "role"    // set by AuthMiddleware
)

// UserIDFrom returns the authenticated user's ID from the context (after AuthMiddleware).
func UserIDFrom(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// RoleFrom returns the authenticated user's role from the context.
func RoleFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRole).(string); ok {
		return v
	}
	return ""
}

// RequestIDFrom returns the X-Request-ID from the context.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}
