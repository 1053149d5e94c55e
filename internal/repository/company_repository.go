package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/company"

	"github.com/google/uuid"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (company.Company, error)
	GetByExternalOrgID(ctx context.Context, orgID string) (company.Company, error)
	// Upsert creates or renames the company keyed by ExternalOrgID.
	Upsert(ctx context.Context, c company.Company) (company.Company, error)

	GetMembership(ctx context.Context, companyID, userID uuid.UUID) (company.Membership, error)
	// UpsertMembership creates or updates the single membership of
	// (CompanyID, UserID).
	UpsertMembership(ctx context.Context, m company.Membership) (company.Membership, error)
}

type PostgresCompanyRepository struct {
	db database.Querier
}

func NewPostgresCompanyRepository(db database.Querier) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

const (
	companyColumns    = `id, external_org_id, name, slug, created_at, updated_at`
	membershipColumns = `id, company_id, user_id, role, status, created_at, updated_at`
)

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

func (r *PostgresCompanyRepository) GetByExternalOrgID(ctx context.Context, orgID string) (company.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE external_org_id = $1`, orgID)
	return scanCompany(row)
}

func (r *PostgresCompanyRepository) Upsert(ctx context.Context, c company.Company) (company.Company, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO companies (id, external_org_id, name, slug, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (external_org_id) DO UPDATE
		 SET name = EXCLUDED.name, slug = EXCLUDED.slug, updated_at = EXCLUDED.updated_at
		 RETURNING `+companyColumns,
		c.ID, c.ExternalOrgID, c.Name, c.Slug, c.CreatedAt, c.UpdatedAt,
	)
	out, err := scanCompany(row)
	if err != nil && postgres.IsUniqueViolation(err) {
		return company.Company{}, ErrDuplicate
	}
	return out, err
}

func (r *PostgresCompanyRepository) GetMembership(ctx context.Context, companyID, userID uuid.UUID) (company.Membership, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+membershipColumns+` FROM company_members WHERE company_id = $1 AND user_id = $2`,
		companyID, userID,
	)
	return scanMembership(row)
}

func (r *PostgresCompanyRepository) UpsertMembership(ctx context.Context, m company.Membership) (company.Membership, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO company_members (id, company_id, user_id, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (company_id, user_id) DO UPDATE
		 SET role = EXCLUDED.role, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		 RETURNING `+membershipColumns,
		m.ID, m.CompanyID, m.UserID, string(m.Role), string(m.Status), m.CreatedAt, m.UpdatedAt,
	)
	return scanMembership(row)
}

func scanCompany(row scanner) (company.Company, error) {
	var c company.Company
	if err := row.Scan(&c.ID, &c.ExternalOrgID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return company.Company{}, ErrNotFound
		}
		return company.Company{}, err
	}
	return c, nil
}

func scanMembership(row scanner) (company.Membership, error) {
	var m company.Membership
	var role, status string
	if err := row.Scan(&m.ID, &m.CompanyID, &m.UserID, &role, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return company.Membership{}, ErrNotFound
		}
		return company.Membership{}, err
	}
	m.Role = company.Role(role)
	m.Status = company.MembershipStatus(status)
	return m, nil
}
