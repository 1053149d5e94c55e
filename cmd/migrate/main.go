package main

import (
	"context"
	"flag"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database/migration"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/pkg/logger"
	"jobboard/migrations"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// migrate applies pending schema migrations and exits. The server runs the
// same step on startup; this exists for deploy pipelines.
func main() {
	envFile := flag.String("env", ".env", "optional env file")
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	status := flag.Bool("status", false, "list pending migrations without applying them")
	flag.Parse()

	_ = godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := logger.New(cfg.App.Environment, cfg.App.LogLevel, cfg.App.LogFormat)
	if cfg.Database.Driver != config.DriverPostgres {
		log.WithField("driver", cfg.Database.Driver).Fatal("migrations need the postgres driver")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	defer db.Close()

	runner := migration.Runner{Dir: cfg.Database.MigrationsDir, FS: migrations.FS, Logger: log}
	if *dir != "" {
		runner.Dir = *dir
	}

	if *status {
		pending, err := runner.Pending(ctx, db.SQLDB())
		if err != nil {
			log.WithError(err).Fatal("migration status")
		}
		for _, m := range pending {
			log.WithFields(logrus.Fields{"version": m.Version, "name": m.Name}).Info("pending")
		}
		log.WithField("pending", len(pending)).Info("migration status")
		return
	}

	applied, err := runner.Run(ctx, db.SQLDB())
	if err != nil {
		log.WithError(err).Fatal("migrate")
	}
	log.WithField("applied", len(applied)).Info("migrations up to date")
}
