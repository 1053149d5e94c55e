package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/config"
	"jobboard/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := logger.New(cfg.App.Environment, cfg.App.LogLevel, cfg.App.LogFormat)

	bootstrap, cleanup, err := app.Bootstrap(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to bootstrap app")
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.WithError(err).Error("cleanup error")
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.WithError(err).Fatal("invalid HTTP port")
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":   addr,
			"driver": cfg.Database.Driver,
			"policy": cfg.Workflow.StatusPolicy,
		}).Info("server starting")
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server error")
		}
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(ctx); err != nil {
			log.WithError(err).Error("shutdown error")
		}
	}
}
