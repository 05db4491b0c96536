package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyloop/studyplan-api/internal/config"
	"github.com/studyloop/studyplan-api/internal/services"
	"github.com/studyloop/studyplan-api/internal/storage"
)

// HealthHandler handles the health probe route
type HealthHandler struct {
	Cfg   *config.Config
	Store storage.Storage
}

// GetHealth handles GET /api/health
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	result := services.HealthCheck(c.Context(), h.Cfg, h.Store)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
