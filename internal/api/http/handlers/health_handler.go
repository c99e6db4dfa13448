package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-whisperer/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance. redis may be nil when
// event publishing is disabled.
func NewHealthHandler(serviceName, version string, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, redis: redis}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness. The store is in-process, so only the
// optional redis event publisher counts as a dependency.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	depStatus := fiber.Map{}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx); err != nil {
			depStatus["redis"] = err.Error()
		} else {
			depStatus["redis"] = "ok"
		}
	} else {
		depStatus["redis"] = "disabled"
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": depStatus,
	})
}
