package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/logger"
	"github.com/localnerve/lexideck/internal/services"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports on the database, cache and external services
type HealthHandler struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Redis redis.UniversalClient
	Log   *logger.Logger
}

// HealthCheck handles GET /api/health
// @Summary Health check
// @Description 503 when the database or cache is down. Unreachable language services only degrade the status.
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	result := services.HealthCheck(requestContext(c), h.Cfg, h.DB, h.Redis, h.Log)
	status := fiber.StatusOK
	if result.Status == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
