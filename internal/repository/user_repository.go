package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByExternalID(ctx context.Context, externalID string) (user.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.User, error)
	// CreateIfAbsent inserts u unless a row with the same ExternalID exists,
	// and returns whichever row is stored afterwards.
	CreateIfAbsent(ctx context.Context, u user.User) (user.User, error)
}

type PostgresUserRepository struct {
	db database.Querier
}

func NewPostgresUserRepository(db database.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, external_id, first_name, last_name, email, created_at, updated_at`

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByExternalID(ctx context.Context, externalID string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.User, error) {
	out := make(map[uuid.UUID]user.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) CreateIfAbsent(ctx context.Context, u user.User) (user.User, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, external_id, first_name, last_name, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (external_id) DO NOTHING`,
		u.ID, u.ExternalID, u.FirstName, u.LastName, u.Email, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}
	return r.GetByExternalID(ctx, u.ExternalID)
}

func scanUser(row scanner) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.ExternalID, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
