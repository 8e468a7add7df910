// Router: Gin engine assembly with recovery, security headers, CORS and the
// /api/v1 middleware chain.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pontifex/fieldops/internal/config"
	"github.com/pontifex/fieldops/internal/inventory"
	"github.com/pontifex/fieldops/internal/jobs"
	"github.com/pontifex/fieldops/internal/middleware"
	"github.com/pontifex/fieldops/internal/operators"
	"github.com/pontifex/fieldops/internal/security"
	"github.com/pontifex/fieldops/internal/standby"
	"github.com/pontifex/fieldops/internal/timecards"
	"github.com/pontifex/fieldops/internal/workflow"
)

// Dependencies carries everything the route groups need.
type Dependencies struct {
	Logger    *zap.Logger
	Security  config.Security
	Redis     *goredis.Client
	JWT       *security.JWTManager
	Operators *operators.Store
	Jobs      *jobs.Store
	Workflow  *workflow.Service
	Timecards *timecards.Store
	Standby   *standby.Store
	Inventory *inventory.Store
}

// New builds the Gin engine: recovery and security headers globally, then
// /api/v1 with request id, logging, rate limiting and JWT auth per group.
func New(deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RecoveryMiddleware(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware())

	if len(deps.Security.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.Security.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.RequestIDMiddleware())
		v1.Use(middleware.RequestLogger(deps.Logger))
		if deps.Redis != nil && deps.Security.RateLimitRPS > 0 {
			v1.Use(middleware.RateLimitMiddleware(deps.Redis, deps.Security.RateLimitRPS))
		}

		RegisterSystem(v1)
		RegisterAuth(v1.Group("/auth"), deps)

		// Everything below requires Authorization: Bearer <JWT>.
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(deps.JWT))
		{
			RegisterJobs(authed, deps)
			RegisterTimecards(authed, deps)
			RegisterInventory(authed, deps)
		}
	}

	return r
}
