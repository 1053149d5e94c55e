package app

import (
	"context"
	"fmt"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/database/migration"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/database/seeder"
	"jobboard/internal/domain/application"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/repository"
	"jobboard/internal/store/memory"
	"jobboard/internal/usecase"
	"jobboard/internal/ws"
	"jobboard/migrations"

	"github.com/sirupsen/logrus"
)

// Container owns the long-lived dependencies of one server process.
type Container struct {
	Config config.Config
	Logger logrus.FieldLogger

	DB     database.DB
	Store  repository.Store
	Cache  *cache.Redis
	Hub    *ws.Hub
	Tokens *jwt.HMACService

	Identities   *usecase.Identities
	Companies    *usecase.Companies
	Listings     *usecase.Listings
	Applications *usecase.Applications
	Favorites    *usecase.Favorites
	Profiles     *usecase.Profiles
	OrgSync      *usecase.OrgSync

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, logger logrus.FieldLogger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := &Container{Config: cfg, Logger: logger}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		c.Store = memory.New()
	default:
		db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		c.DB = db
		runner := migration.Runner{Dir: cfg.Database.MigrationsDir, FS: migrations.FS, Logger: logger}
		if _, err := runner.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		c.Store = repository.NewPostgresStore(db)
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	c.Tokens = jwt.NewHMACService(cfg.Identity.TokenSecret, cfg.Identity.TokenIssuer)

	c.Hub = ws.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	c.wireUsecases()

	if cfg.Database.RunSeeders {
		r := seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}
		if err := r.Run(ctx, seeder.Env{Sync: c.OrgSync, Listings: c.Listings}); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	return c, nil
}

func (c *Container) wireUsecases() {
	var clock usecase.Clock
	policy := application.Policy(c.Config.Workflow.StatusPolicy)

	// A disabled cache still satisfies the interface and misses every read.
	var searchCache usecase.SearchCache = c.Cache

	c.Identities = usecase.NewIdentities(c.Store, clock, c.Logger)
	c.Companies = usecase.NewCompanies(c.Store, c.Logger)
	c.Listings = usecase.NewListings(c.Store, searchCache, c.Hub, clock, c.Logger)
	c.Applications = usecase.NewApplications(c.Store, policy, searchCache, c.Hub, clock, c.Logger)
	c.Favorites = usecase.NewFavorites(c.Store, c.Hub, clock, c.Logger)
	c.Profiles = usecase.NewProfiles(c.Store, clock, c.Logger)
	c.OrgSync = usecase.NewOrgSync(c.Store, c.Hub, clock, c.Logger)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
