// Middleware: required Authorization: Bearer <token> header and token validation.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontifex/fieldops/internal/response"
	"github.com/pontifex/fieldops/internal/security"
)

const HeaderAuthorization = "Authorization"
const BearerPrefix = "Bearer "

// AuthMiddleware requires Authorization: Bearer <token>, validates the access
// token and stores user id + role in the request context.
func AuthMiddleware(jwtm *security.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderAuthorization)
		if raw == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "missing Authorization header")
			return
		}
		if !strings.HasPrefix(raw, BearerPrefix) {
			response.AbortWithError(c, http.StatusUnauthorized, "invalid Authorization; expected Bearer <token>")
			return
		}
		token := strings.TrimPrefix(raw, BearerPrefix)
		if token == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "missing Bearer token")
			return
		}
		userID, role, err := jwtm.ParseAccess(token)
		if err != nil || userID == uuid.Nil {
			response.AbortWithError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(string(ContextKeyUserID), userID)
		c.Set(string(ContextKeyRole), role)
		ctx := context.WithValue(c.Request.Context(), ContextKeyUserID, userID)
		ctx = context.WithValue(ctx, ContextKeyRole, role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole refuses the request unless AuthMiddleware stored the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFrom(c.Request.Context()) != role {
			response.AbortWithError(c, http.StatusForbidden, "insufficient role")
			return
		}
		c.Next()
	}
}
