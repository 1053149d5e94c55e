package app

import (
	"fmt"
	"strings"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/routes"
	v1 "jobboard/internal/delivery/http/routes/v1"
	"jobboard/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app over an existing container. A nil limiter
// disables rate limiting.
func New(c *Container, limiter *middleware.RateLimiter) *App {
	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	registerGlobalMiddleware(f, c.Logger)
	buildRegistry(c, limiter).Register(f)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger logrus.FieldLogger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	stop := make(chan struct{})
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
	limiter.StartCleanup(10*time.Minute, stop)

	cleanup := func() error {
		close(stop)
		return c.Close()
	}
	return New(c, limiter), cleanup, nil
}

// registerGlobalMiddleware order matters: the access log and metrics wrap the
// error middleware so they observe the final status.
func registerGlobalMiddleware(app *fiber.App, logger logrus.FieldLogger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.Metrics())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func buildRegistry(c *Container, limiter *middleware.RateLimiter) *routes.Registry {
	required := map[string]handler.Pinger{}
	if c.DB != nil {
		required["database"] = c.DB
	}
	optional := map[string]handler.Pinger{}
	if c.Config.Redis.RedisEnabled() {
		optional["redis"] = c.Cache
	}

	handlers := v1.Handlers{
		Jobs:         handler.NewJobsHandler(c.Listings, c.Applications, c.Favorites),
		Me:           handler.NewMeHandler(c.Applications, c.Favorites, c.Profiles),
		Applications: handler.NewApplicationHandler(c.Applications),
		Companies:    handler.NewCompanyHandler(c.Companies, c.Listings, c.Applications),
		Sync:         handler.NewSyncHandler(c.OrgSync, c.Config.Identity.SyncSecret),
		Live:         ws.NewHandler(c.Hub, c.Tokens, ws.NewTopicAuthorizer(c.Identities, c.Companies), c.Logger),
	}

	return routes.NewRegistry(
		handler.NewHealthHandler(required, optional),
		middleware.NewAuthMiddleware(c.Tokens),
		limiter,
		handlers,
	)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
