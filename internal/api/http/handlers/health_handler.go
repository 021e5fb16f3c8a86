package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rag-chat-service/internal/observability"
	"github.com/spec-kit/rag-chat-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes plus an operational
// counters snapshot.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
	metrics  *observability.Metrics
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(postgres *persistence.Postgres, redisStore *persistence.Redis, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redisStore, metrics: metrics}
}

// Live handles GET /health. It reports process liveness only.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready. It probes both backing stores and
// reports 503 when either is unreachable.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{"postgres": "ok", "redis": "ok"}
	healthy := true

	if err := h.postgres.Ping(c.Context()); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	}
	if err := h.redis.Ping(c.Context()); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{"status": overall, "checks": checks})
}

// Counters handles GET /health/metrics. It dumps the in-process request and
// error counters since startup.
func (h *HealthHandler) Counters(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Collect())
}
