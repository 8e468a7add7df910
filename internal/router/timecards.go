// Timecards router: clock events and day summaries.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pontifex/fieldops/internal/handlers"
	"github.com/pontifex/fieldops/internal/middleware"
	"github.com/pontifex/fieldops/internal/security"
)

// RegisterTimecards mounts timecard routes. Approval is admin only.
func RegisterTimecards(authed *gin.RouterGroup, deps Dependencies) {
	tc := authed.Group("/timecards")

	tc.POST("", handlers.RecordTimecard(deps.Timecards))
	tc.GET("", handlers.ListTimecards(deps.Timecards))
	tc.GET("/summary", handlers.TimecardSummary(deps.Timecards))

	admin := tc.Group("")
	admin.Use(middleware.RequireRole(security.RoleAdmin))
	{
		admin.POST("/:id/approve", handlers.ApproveTimecard(deps.Timecards))
	}
}
