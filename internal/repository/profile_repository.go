package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/profile"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	// UpsertProfile keeps the stored ID and CreatedAt when a profile exists.
	UpsertProfile(ctx context.Context, p profile.Profile) (profile.Profile, error)

	// ListResumes returns the user's resumes newest first.
	ListResumes(ctx context.Context, userID uuid.UUID) ([]profile.Resume, error)
	GetResume(ctx context.Context, id uuid.UUID) (profile.Resume, error)
	CreateResume(ctx context.Context, r profile.Resume) error
	DeleteResume(ctx context.Context, id uuid.UUID) error
	ClearDefaultResume(ctx context.Context, userID uuid.UUID) error
	SetDefaultResume(ctx context.Context, id uuid.UUID) error
}

type PostgresProfileRepository struct {
	db database.Querier
}

func NewPostgresProfileRepository(db database.Querier) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const (
	profileColumns = `id, user_id, headline, bio, location, years_experience, skills, open_to_work, created_at, updated_at`
	resumeColumns  = `id, user_id, title, file_name, file_url, is_default, created_at, updated_at`
)

func (r *PostgresProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM candidate_profiles WHERE user_id = $1`, userID))
}

func (r *PostgresProfileRepository) UpsertProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO candidate_profiles (id, user_id, headline, bio, location, years_experience, skills, open_to_work, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (user_id) DO UPDATE
		 SET headline = EXCLUDED.headline, bio = EXCLUDED.bio, location = EXCLUDED.location,
			years_experience = EXCLUDED.years_experience, skills = EXCLUDED.skills,
			open_to_work = EXCLUDED.open_to_work, updated_at = EXCLUDED.updated_at
		 RETURNING `+profileColumns,
		p.ID, p.UserID, p.Headline, p.Bio, p.Location, p.YearsExperience, skills, p.OpenToWork, p.CreatedAt, p.UpdatedAt,
	)
	return scanProfile(row)
}

func (r *PostgresProfileRepository) ListResumes(ctx context.Context, userID uuid.UUID) ([]profile.Resume, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Resume, 0)
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) GetResume(ctx context.Context, id uuid.UUID) (profile.Resume, error) {
	return scanResume(r.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
}

func (r *PostgresProfileRepository) CreateResume(ctx context.Context, res profile.Resume) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO resumes (id, user_id, title, file_name, file_url, is_default, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.ID, res.UserID, res.Title, res.FileName, res.FileURL, res.IsDefault, res.CreatedAt, res.UpdatedAt,
	)
	return err
}

func (r *PostgresProfileRepository) DeleteResume(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	return err
}

func (r *PostgresProfileRepository) ClearDefaultResume(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE resumes SET is_default = false WHERE user_id = $1 AND is_default`, userID)
	return err
}

func (r *PostgresProfileRepository) SetDefaultResume(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `UPDATE resumes SET is_default = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row scanner) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Headline, &p.Bio, &p.Location, &p.YearsExperience, &p.Skills, &p.OpenToWork, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

func scanResume(row scanner) (profile.Resume, error) {
	var res profile.Resume
	err := row.Scan(&res.ID, &res.UserID, &res.Title, &res.FileName, &res.FileURL, &res.IsDefault, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return profile.Resume{}, ErrNotFound
		}
		return profile.Resume{}, err
	}
	return res, nil
}
