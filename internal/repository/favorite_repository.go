package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/favorite"

	"github.com/google/uuid"
)

const (
	DefaultFavoritesLimit = 100
	MaxFavoritesLimit     = 200
)

type FavoriteRepository interface {
	// Add is idempotent: an existing (UserID, JobID) pair is left untouched.
	Add(ctx context.Context, f favorite.Favorite) error
	// Remove is idempotent: removing a missing pair is not an error.
	Remove(ctx context.Context, userID, jobID uuid.UUID) error
	Exists(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]favorite.Favorite, error)
}

type PostgresFavoriteRepository struct {
	db database.Querier
}

func NewPostgresFavoriteRepository(db database.Querier) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{db: db}
}

func (r *PostgresFavoriteRepository) Add(ctx context.Context, f favorite.Favorite) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO favorites (id, user_id, job_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, job_id) DO NOTHING`,
		f.ID, f.UserID, f.JobID, f.CreatedAt,
	)
	if err != nil && postgres.IsForeignKeyViolation(err) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresFavoriteRepository) Remove(ctx context.Context, userID, jobID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND job_id = $2`, userID, jobID)
	return err
}

func (r *PostgresFavoriteRepository) Exists(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND job_id = $2)`, userID, jobID)
	if err := row.Scan(&exists); err != nil {
		if postgres.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresFavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]favorite.Favorite, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, job_id, created_at
		 FROM favorites
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2`,
		userID, ClampLimit(limit, DefaultFavoritesLimit, MaxFavoritesLimit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]favorite.Favorite, 0)
	for rows.Next() {
		var f favorite.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.JobID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
