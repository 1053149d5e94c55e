package handler

import (
	"context"
	"time"

	"jobboard/internal/metrics"
	"jobboard/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler probes required dependencies, which decide the status code,
// and optional ones, which are only reported.
type HealthHandler struct {
	required map[string]Pinger
	optional map[string]Pinger
}

func NewHealthHandler(required, optional map[string]Pinger) *HealthHandler {
	return &HealthHandler{required: required, optional: optional}
}

func (h *HealthHandler) RegisterRoutes(app fiber.Router) {
	if app == nil {
		return
	}
	app.Get("/health", h.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := make(map[string]string, len(h.required)+len(h.optional))
	healthy := probe(ctx, h.required, out)
	probe(ctx, h.optional, out)

	if !healthy {
		return response.Success(c, fiber.StatusServiceUnavailable, "degraded", out)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func probe(ctx context.Context, checks map[string]Pinger, out map[string]string) bool {
	ok := true
	for name, p := range checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			out[name] = "down"
			ok = false
			continue
		}
		out[name] = "up"
	}
	return ok
}
