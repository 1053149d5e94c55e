package repository

import (
	"context"
	"encoding/json"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/application"

	"github.com/google/uuid"
)

const (
	DefaultApplicationsLimit = 50
	// MaxApplicationsFetch bounds a single read, including the over-fetch
	// used when company applications are post-filtered by job.
	MaxApplicationsFetch = 1000
)

type ApplicationRepository interface {
	// Create inserts a new application. A second row for the same
	// (JobID, ApplicantUserID) yields ErrDuplicate.
	Create(ctx context.Context, a application.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (application.Application, error)
	GetByJobAndApplicant(ctx context.Context, jobID, applicantID uuid.UUID) (application.Application, error)
	Update(ctx context.Context, a application.Application) error

	ListByApplicant(ctx context.Context, applicantID uuid.UUID, limit int) ([]application.Application, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]application.Application, error)
	ListByCompanyStatus(ctx context.Context, companyID uuid.UUID, status application.Status, limit int) ([]application.Application, error)
}

type PostgresApplicationRepository struct {
	db database.Querier
}

func NewPostgresApplicationRepository(db database.Querier) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationSelect = `SELECT id, job_id, company_id, applicant_user_id, status, cover_letter,
	resume_id, answers, decided_by_user_id, decided_at, created_at, updated_at
	FROM applications`

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) error {
	answers, err := encodeAnswers(a.Answers)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO applications (id, job_id, company_id, applicant_user_id, status, cover_letter,
			resume_id, answers, decided_by_user_id, decided_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.JobID, a.CompanyID, a.ApplicantUserID, string(a.Status), a.CoverLetter,
		a.ResumeID, answers, a.DecidedByUserID, a.DecidedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil && postgres.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE id = $1`, id))
}

func (r *PostgresApplicationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (application.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE id = $1 FOR UPDATE`, id))
}

func (r *PostgresApplicationRepository) GetByJobAndApplicant(ctx context.Context, jobID, applicantID uuid.UUID) (application.Application, error) {
	return scanApplication(r.db.QueryRow(ctx,
		applicationSelect+` WHERE job_id = $1 AND applicant_user_id = $2`,
		jobID, applicantID,
	))
}

func (r *PostgresApplicationRepository) Update(ctx context.Context, a application.Application) error {
	answers, err := encodeAnswers(a.Answers)
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE applications
		 SET status = $2, cover_letter = $3, resume_id = $4, answers = $5,
			decided_by_user_id = $6, decided_at = $7, updated_at = $8
		 WHERE id = $1`,
		a.ID, string(a.Status), a.CoverLetter, a.ResumeID, answers,
		a.DecidedByUserID, a.DecidedAt, a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID, limit int) ([]application.Application, error) {
	return r.list(ctx,
		applicationSelect+` WHERE applicant_user_id = $1 ORDER BY created_at DESC, id LIMIT $2`,
		applicantID, ClampLimit(limit, DefaultApplicationsLimit, MaxApplicationsFetch),
	)
}

func (r *PostgresApplicationRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]application.Application, error) {
	return r.list(ctx,
		applicationSelect+` WHERE company_id = $1 ORDER BY created_at DESC, id LIMIT $2`,
		companyID, ClampLimit(limit, DefaultApplicationsLimit, MaxApplicationsFetch),
	)
}

func (r *PostgresApplicationRepository) ListByCompanyStatus(ctx context.Context, companyID uuid.UUID, status application.Status, limit int) ([]application.Application, error) {
	return r.list(ctx,
		applicationSelect+` WHERE company_id = $1 AND status = $2 ORDER BY created_at DESC, id LIMIT $3`,
		companyID, string(status), ClampLimit(limit, DefaultApplicationsLimit, MaxApplicationsFetch),
	)
}

func (r *PostgresApplicationRepository) list(ctx context.Context, q string, args ...any) ([]application.Application, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplication(row scanner) (application.Application, error) {
	var a application.Application
	var status string
	var answers []byte
	err := row.Scan(
		&a.ID, &a.JobID, &a.CompanyID, &a.ApplicantUserID, &status, &a.CoverLetter,
		&a.ResumeID, &answers, &a.DecidedByUserID, &a.DecidedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return application.Application{}, err
		}
	}
	return a, nil
}

func encodeAnswers(answers []application.Answer) ([]byte, error) {
	if len(answers) == 0 {
		return nil, nil
	}
	return json.Marshal(answers)
}
