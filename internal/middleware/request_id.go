// Middleware: X-Request-ID header; generated when absent, echoed back on the response.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderXRequestID = "X-Request-ID"

// RequestIDMiddleware accepts a client-supplied X-Request-ID (UUID) or
// generates one, stores it in the context and sets the response header.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Set(string(ContextKeyRequestID), rid)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ContextKeyRequestID, rid))
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}
