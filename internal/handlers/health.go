package handlers

import (
	"github.com/dialogue-eval/ratingsdb/internal/config"
	"github.com/dialogue-eval/ratingsdb/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles the service health probe
type HealthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// Get handles GET /api/health
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
