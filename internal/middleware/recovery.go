// Middleware: panic recovery, 500 response without leaking the stack to the client.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pontifex/fieldops/internal/response"
)

// RecoveryMiddleware intercepts panics, logs them with the request path and
// returns 500 without exposing details to the client.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
				)
				response.AbortWithError(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}
