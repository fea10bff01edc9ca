package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/secops-service/internal/api/dto"
)

// Pinger is a dependency that can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthOptions describes the running service.
type HealthOptions struct {
	Environment string
	Version     string
	// Production hides dependency failure causes from readiness responses.
	Production bool
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	opts  HealthOptions
	store Pinger
	now   func() time.Time
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(opts HealthOptions, store Pinger) *HealthHandler {
	return &HealthHandler{opts: opts, store: store, now: time.Now}
}

// Live GET /api/health.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:      "ok",
		Timestamp:   h.now().UTC(),
		Environment: h.opts.Environment,
		Version:     h.opts.Version,
	})
}

// Ready GET /api/health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		cause := "unavailable"
		if !h.opts.Production {
			cause = err.Error()
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Message: "one or more dependencies unavailable",
			Code:    "DEPENDENCY_UNAVAILABLE",
			Details: map[string]any{"store": cause},
		})
	}
	return c.JSON(dto.ReadyResponse{Status: "ready", Dependencies: map[string]string{"store": "ok"}})
}
