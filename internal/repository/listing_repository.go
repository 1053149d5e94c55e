package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/listing"

	"github.com/google/uuid"
)

const (
	DefaultSearchLimit      = 50
	DefaultCompanyJobsLimit = 100
	MaxListingLimit         = 200
)

type ListingRepository interface {
	Create(ctx context.Context, l listing.JobListing) error
	GetByID(ctx context.Context, id uuid.UUID) (listing.JobListing, error)
	// GetByIDForUpdate reads the listing and holds it until the transaction
	// ends, serializing applies and edits on the same listing.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (listing.JobListing, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]listing.JobListing, error)
	Update(ctx context.Context, l listing.JobListing) error
	IncrementApplicationCount(ctx context.Context, id uuid.UUID, at time.Time) error
	Search(ctx context.Context, f listing.SearchFilter) ([]listing.JobListing, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, includeClosed bool, limit int) ([]listing.JobListing, error)
}

type PostgresListingRepository struct {
	db database.Querier
}

func NewPostgresListingRepository(db database.Querier) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

const listingSelect = `SELECT j.id, j.company_id, c.name, j.title, j.description, j.location,
	j.employment_type, j.workplace_type, j.salary_min, j.salary_max, j.salary_currency,
	j.tags, j.is_active, j.application_count, j.created_by_user_id, j.created_at, j.updated_at
	FROM job_listings j
	JOIN companies c ON c.id = j.company_id`

func (r *PostgresListingRepository) Create(ctx context.Context, l listing.JobListing) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO job_listings (id, company_id, title, description, location, employment_type,
			workplace_type, salary_min, salary_max, salary_currency, tags, is_active,
			application_count, created_by_user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		l.ID, l.CompanyID, l.Title, l.Description, l.Location, string(l.EmploymentType),
		string(l.WorkplaceType), l.Salary.Min, l.Salary.Max, l.Salary.Currency, tagsOrEmpty(l.Tags), l.IsActive,
		l.ApplicationCount, l.CreatedByUserID, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil && postgres.IsForeignKeyViolation(err) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresListingRepository) GetByID(ctx context.Context, id uuid.UUID) (listing.JobListing, error) {
	return scanListing(r.db.QueryRow(ctx, listingSelect+` WHERE j.id = $1`, id))
}

func (r *PostgresListingRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (listing.JobListing, error) {
	return scanListing(r.db.QueryRow(ctx, listingSelect+` WHERE j.id = $1 FOR UPDATE OF j`, id))
}

func (r *PostgresListingRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]listing.JobListing, error) {
	out := make(map[uuid.UUID]listing.JobListing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	items, err := r.list(ctx, listingSelect+` WHERE j.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range items {
		out[l.ID] = l
	}
	return out, nil
}

func (r *PostgresListingRepository) Update(ctx context.Context, l listing.JobListing) error {
	n, err := r.db.Exec(ctx,
		`UPDATE job_listings
		 SET title = $2, description = $3, location = $4, employment_type = $5, workplace_type = $6,
			salary_min = $7, salary_max = $8, salary_currency = $9, tags = $10, is_active = $11,
			updated_at = $12
		 WHERE id = $1`,
		l.ID, l.Title, l.Description, l.Location, string(l.EmploymentType), string(l.WorkplaceType),
		l.Salary.Min, l.Salary.Max, l.Salary.Currency, tagsOrEmpty(l.Tags), l.IsActive, l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresListingRepository) IncrementApplicationCount(ctx context.Context, id uuid.UUID, at time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE job_listings SET application_count = application_count + 1, updated_at = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresListingRepository) Search(ctx context.Context, f listing.SearchFilter) ([]listing.JobListing, error) {
	where := []string{"j.is_active = true"}
	args := make([]any, 0, 5)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if text := strings.TrimSpace(f.Text); text != "" {
		p := arg("%" + escapeLike(text) + "%")
		where = append(where, fmt.Sprintf(
			"(j.title ILIKE %[1]s OR c.name ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(j.tags) t WHERE t ILIKE %[1]s))", p,
		))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		where = append(where, "j.location ILIKE "+arg("%"+escapeLike(loc)+"%"))
	}
	if f.WorkplaceType != "" {
		where = append(where, "j.workplace_type = "+arg(string(f.WorkplaceType)))
	}
	if f.EmploymentType != "" {
		where = append(where, "j.employment_type = "+arg(string(f.EmploymentType)))
	}
	limit := ClampLimit(f.Limit, DefaultSearchLimit, MaxListingLimit)

	q := listingSelect + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY j.updated_at DESC, j.id LIMIT " + arg(limit)
	return r.list(ctx, q, args...)
}

func (r *PostgresListingRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, includeClosed bool, limit int) ([]listing.JobListing, error) {
	limit = ClampLimit(limit, DefaultCompanyJobsLimit, MaxListingLimit)
	return r.list(ctx,
		listingSelect+` WHERE j.company_id = $1 AND ($2 OR j.is_active) ORDER BY j.updated_at DESC, j.id LIMIT $3`,
		companyID, includeClosed, limit,
	)
}

func (r *PostgresListingRepository) list(ctx context.Context, q string, args ...any) ([]listing.JobListing, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]listing.JobListing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanListing(row scanner) (listing.JobListing, error) {
	var l listing.JobListing
	var employment, workplace string
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.CompanyName, &l.Title, &l.Description, &l.Location,
		&employment, &workplace, &l.Salary.Min, &l.Salary.Max, &l.Salary.Currency,
		&l.Tags, &l.IsActive, &l.ApplicationCount, &l.CreatedByUserID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return listing.JobListing{}, ErrNotFound
		}
		return listing.JobListing{}, err
	}
	l.EmploymentType = listing.EmploymentType(employment)
	l.WorkplaceType = listing.WorkplaceType(workplace)
	if l.Tags == nil {
		l.Tags = []string{}
	}
	return l, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
