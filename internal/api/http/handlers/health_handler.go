package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness checks.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
	logger   *zap.Logger
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(postgres *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis, logger: logger}
}

// Live reports the process is up.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready reports dependency status.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx := c.UserContext()
	status := "ok"
	deps := fiber.Map{}

	if err := h.postgres.Ping(ctx); err != nil {
		h.logger.Warn("readiness: postgres unreachable", zap.Error(err))
		deps["postgres"] = "down"
		status = "degraded"
	} else {
		deps["postgres"] = "up"
	}

	if err := h.redis.Ping(ctx); err != nil {
		h.logger.Warn("readiness: redis unreachable", zap.Error(err))
		deps["redis"] = "down"
		status = "degraded"
	} else {
		deps["redis"] = "up"
	}

	return c.JSON(fiber.Map{"status": status, "dependencies": deps})
}
