// Auth router: login and refresh (no bearer token required).
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pontifex/fieldops/internal/handlers"
)

// RegisterAuth mounts the credential endpoints.
func RegisterAuth(auth *gin.RouterGroup, deps Dependencies) {
	auth.POST("/login", handlers.Login(deps.Operators, deps.JWT))
	auth.POST("/refresh", handlers.Refresh(deps.JWT))
}
