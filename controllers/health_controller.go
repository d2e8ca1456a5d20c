package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck maneja GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "hors-serie-api",
	})
}
