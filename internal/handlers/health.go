package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pontifex/fieldops/internal/response"
)

// Health reports liveness. GET /health.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, response.MsgSuccess, gin.H{"status": "ok"})
	}
}
