package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per identity, or per client IP for guests.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   logrus.FieldLogger
}

func NewRateLimiter(requestsPerSecond, burst int, logger logrus.FieldLogger) *RateLimiter {
	if burst <= 0 {
		burst = requestsPerSecond
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   logger,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// Middleware limits writes only. It must run after the auth middleware so
// identities are keyed separately from their IPs. A non-positive rate
// disables limiting.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if rl == nil || rl.rate <= 0 {
			return c.Next()
		}
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		key := "ip:" + c.IP()
		if id := IdentityFrom(c); id.Valid() {
			key = "sub:" + id.ExternalID
		}

		if !rl.getLimiter(key).Allow() {
			if rl.logger != nil {
				rl.logger.WithFields(logrus.Fields{
					"key":    key,
					"path":   c.Path(),
					"method": c.Method(),
				}).Warn("rate limit exceeded")
			}
			c.Set(fiber.HeaderRetryAfter, "1")
			return NewAppError(fiber.StatusTooManyRequests, "Too many requests.", nil, nil)
		}
		return c.Next()
	}
}

// Cleanup drops all limiters once the table grows past a bound.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) > 10000 {
		rl.limiters = make(map[string]*rate.Limiter)
	}
}

// StartCleanup runs Cleanup every interval until stop is closed.
func (rl *RateLimiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
