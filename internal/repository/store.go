package repository

import (
	"context"
	"errors"

	"jobboard/internal/database"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Repositories is the set of data access objects bound to one connection or
// one transaction.
type Repositories struct {
	Users         UserRepository
	Companies     CompanyRepository
	Listings      ListingRepository
	Applications  ApplicationRepository
	Favorites     FavoriteRepository
	Notifications NotificationRepository
	Profiles      ProfileRepository
}

// Store is the transactional substrate. Every write goes through WithinTx and
// is committed all-or-nothing; Repos serves reads.
type Store interface {
	Repos() Repositories
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}

type PostgresStore struct {
	db database.DB
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Repos() Repositories {
	return bind(s.db)
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(r Repositories) error) error {
	return database.WithTx(ctx, s.db, func(tx database.Tx) error {
		return fn(bind(tx))
	})
}

func bind(q database.Querier) Repositories {
	return Repositories{
		Users:         NewPostgresUserRepository(q),
		Companies:     NewPostgresCompanyRepository(q),
		Listings:      NewPostgresListingRepository(q),
		Applications:  NewPostgresApplicationRepository(q),
		Favorites:     NewPostgresFavoriteRepository(q),
		Notifications: NewPostgresNotificationRepository(q),
		Profiles:      NewPostgresProfileRepository(q),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

// ClampLimit maps a non-positive limit to def and caps it at max.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}
