// Inventory router: item catalog, assignment and low-stock reporting.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pontifex/fieldops/internal/handlers"
	"github.com/pontifex/fieldops/internal/middleware"
	"github.com/pontifex/fieldops/internal/security"
)

// RegisterInventory mounts inventory routes. Catalog writes are admin only;
// assign/return happen in the field and are open to operators.
func RegisterInventory(authed *gin.RouterGroup, deps Dependencies) {
	inv := authed.Group("/inventory")

	inv.GET("", handlers.ListItems(deps.Inventory))
	inv.GET("/low-stock", handlers.LowStockItems(deps.Inventory))
	inv.GET("/:id", handlers.GetItem(deps.Inventory))
	inv.POST("/:id/assign", handlers.AssignItem(deps.Inventory))
	inv.POST("/:id/return", handlers.ReturnItem(deps.Inventory))

	admin := inv.Group("")
	admin.Use(middleware.RequireRole(security.RoleAdmin))
	{
		admin.POST("", handlers.CreateItem(deps.Inventory))
		admin.PATCH("/:id", handlers.UpdateItem(deps.Inventory))
		admin.DELETE("/:id", handlers.DeleteItem(deps.Inventory))
	}
}
