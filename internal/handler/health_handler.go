package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceVersion is reported by the root health check.
const ServiceVersion = "1.2"

// HealthHandler handles health check endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root handles GET /
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "healthy"
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": ServiceVersion})
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
