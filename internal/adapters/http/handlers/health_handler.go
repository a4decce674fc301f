package handlers

import (
	"shelfwise/internal/config"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root handles the root route
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, fiber.Map{
		"service": "shelfwise",
		"docs":    "/swagger/index.html",
	})
}

// Check handles the health check
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := config.HealthCheck(); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unreachable")
	}

	return response.Success(c, fiber.Map{
		"status": "healthy",
	})
}
