package seeder

import (
	"context"

	"jobboard/internal/usecase"
)

// Env is what seeders write through. Seeding goes through the usecases so
// demo data obeys the same rules as real traffic.
type Env struct {
	Sync     *usecase.OrgSync
	Listings *usecase.Listings
}

type Seeder interface {
	Name() string
	Run(ctx context.Context, env Env) error
}
