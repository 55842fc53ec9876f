package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Index is the root liveness check. The payload is fixed.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"response":    true,
		"description": "Discord webhook",
	})
}
