package middleware

import (
	"time"

	"jobboard/internal/metrics"

	"github.com/gofiber/fiber/v3"
)

// Metrics records request counts and latency by route pattern. It must wrap
// the error middleware so the final status is visible.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		metrics.RequestStarted()

		err := c.Next()

		route := ""
		if r := c.Route(); r != nil {
			route = r.Path
		}
		metrics.RecordRequest(c.Method(), route, c.Response().StatusCode(), time.Since(start))
		return err
	}
}
