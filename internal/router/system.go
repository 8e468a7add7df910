// System router: health endpoint (no auth).
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pontifex/fieldops/internal/handlers"
)

// RegisterSystem mounts system routes on the v1 group.
func RegisterSystem(v1 *gin.RouterGroup) {
	v1.GET("/health", handlers.Health())
}
