// Jobs router: job orders, workflow progression and standby intervals.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pontifex/fieldops/internal/handlers"
	"github.com/pontifex/fieldops/internal/middleware"
	"github.com/pontifex/fieldops/internal/security"
)

// RegisterJobs mounts job, workflow and standby routes. Dispatch writes are
// admin only; everything an operator does in the field is open to both roles.
func RegisterJobs(authed *gin.RouterGroup, deps Dependencies) {
	jobs := authed.Group("/jobs")

	jobs.GET("", handlers.ListJobs(deps.Jobs))
	jobs.GET("/:id", handlers.GetJob(deps.Jobs))
	jobs.POST("/:id/status", handlers.SetJobStatus(deps.Jobs))

	jobs.GET("/:id/workflow", handlers.GetWorkflow(deps.Workflow))
	jobs.POST("/:id/workflow", handlers.RecordStep(deps.Workflow))
	jobs.POST("/:id/workflow/in-route", handlers.SubmitInRoute(deps.Workflow, deps.Jobs))

	jobs.GET("/:id/standby", handlers.ListStandby(deps.Standby))
	jobs.POST("/:id/standby/start", handlers.StartStandby(deps.Standby))
	jobs.POST("/:id/standby/stop", handlers.StopStandby(deps.Standby))

	admin := jobs.Group("")
	admin.Use(middleware.RequireRole(security.RoleAdmin))
	{
		admin.POST("", handlers.CreateJob(deps.Jobs))
		admin.PATCH("/:id", handlers.UpdateJob(deps.Jobs))
	}
}
