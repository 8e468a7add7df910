// Inventory handlers: item CRUD, assignment and low-stock listing.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pontifex/fieldops/internal/inventory"
	"github.com/pontifex/fieldops/internal/response"
)

// CreateItemRequest is the body for POST /inventory.
type CreateItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
	Size         string  `json:"size"`
	Quantity     int     `json:"quantity_in_stock"`
	ReorderLevel int     `json:"reorder_level"`
	UnitPrice    float64 `json:"unit_price"`
}

// CreateItem registers a new inventory item. Admin only.
func CreateItem(store *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "name and category are required")
			return
		}
		if req.Quantity < 0 || req.ReorderLevel < 0 || req.UnitPrice < 0 {
			response.Error(c, http.StatusBadRequest, "quantities and price must be non-negative")
			return
		}
		item, err := store.Create(c.Request.Context(), inventory.CreateInput{
			Name:         req.Name,
			Category:     req.Category,
			Manufacturer: req.Manufacturer,
			Model:        req.Model,
			Size:         req.Size,
			Quantity:     req.Quantity,
			ReorderLevel: req.ReorderLevel,
			UnitPrice:    req.UnitPrice,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusCreated, response.MsgCreated, item)
	}
}

// GetItem returns a single item with its derived availability.
func GetItem(store *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		item, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, inventory.ErrNotFound) {
				response.Error(c, http.StatusNotFound, "inventory item not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
			"item":      item,
			"available": item.Available(),
			"low_stock": item.LowStock(),
		})
	}
}

// ListItems returns items filtered by ?category= and ?low_stock=true.
func ListItems(store *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := store.List(c.Request.Context(), c.Query("category"), c.Query("low_stock") == "true")
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, items)
	}
}

// LowStockItems returns items at or below their reorder level.
// GET /inventory/low-stock.
func LowStockItems(store *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := store.List(c.Request.Context(), c.Query("category"), true)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, items)
	}
}

// UpdateItemRequest carries optional fields for PATCH /inventory/:id.
type UpdateItemRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Manufacturer *string  `json:"manufacturer"`
	Model        *string  `json:"model"`
	Size         *string  `json:"size"`
	Quantity     *int     `json:"quantity_in_stock"`
	ReorderLevel *int     `json:"reorder_level"`
	UnitPrice    *float64 `json:"unit_price"`
}

// UpdateItem applies a partial update. Admin only.
func UpdateItem(store *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		err = store.Update(c.Request.Context(), id, inventory.UpdateInput{
			Name:         req.Name,
			Category:     req.Category,
			Manufacturer: req.Manufacturer,
			Model:        req.Model,
			Size:         req.Size,
			Quantity:     req.Quantity,
			ReorderLevel: req.ReorderLevel,
			UnitPrice:    req.UnitPrice,
		})
		if err != nil {
			if errors.Is(err, inventory.ErrNotFound) {
				response.Error(c, http.StatusNotFound, "inventory item not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, nil)
	}
}

// AdjustItemRequest is the body for assign/return operations.
type AdjustItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// AssignItem moves stock onto a crew/truck. Clamped to availability.
func AssignItem(store *inventory.Store) gin.HandlerFunc {
	return adjustItem(store, true)
}

// ReturnItem moves assigned stock back. Clamped at zero.
func ReturnItem(store *inventory.Store) gin.HandlerFunc {
	return adjustItem(store, false)
}

func adjustItem(store *inventory.Store, assign bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		var req AdjustItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "quantity must be a positive integer")
			return
		}
		var item inventory.Item
		if assign {
			item, err = store.Assign(c.Request.Context(), id, req.Quantity)
		} else {
			item, err = store.Return(c.Request.Context(), id, req.Quantity)
		}
		if err != nil {
			if errors.Is(err, inventory.ErrNotFound) {
				response.Error(c, http.StatusNotFound, "inventory item not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{
			"item":      item,
			"available": item.Available(),
			"low_stock": item.LowStock(),
		})
	}
}

// DeleteItem removes an item. Admin only.
func DeleteItem(store *inventory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid id")
			return
		}
		if err := store.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, inventory.ErrNotFound) {
				response.Error(c, http.StatusNotFound, "inventory item not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		response.Success(c, http.StatusOK, response.MsgSuccess, nil)
	}
}
