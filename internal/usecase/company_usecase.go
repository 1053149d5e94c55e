package usecase

import (
	"context"
	"errors"
	"strings"

	"jobboard/internal/domain/company"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Companies is the membership authority. Every company-scoped operation
// re-derives the caller's role from the stored membership; role claims on
// the identity token are never trusted for authorization.
type Companies struct {
	store  repository.Store
	logger logrus.FieldLogger
}

func NewCompanies(store repository.Store, logger logrus.FieldLogger) *Companies {
	return &Companies{store: store, logger: logger}
}

// GetCompanyContext resolves the caller's view of the company synced from
// orgRef. It is nil for guests, unsynced organizations and callers without an
// active membership.
func (u *Companies) GetCompanyContext(ctx context.Context, id user.Identity, orgRef string) (*company.Context, error) {
	orgRef = strings.TrimSpace(orgRef)
	if orgRef == "" {
		return nil, nil
	}
	r := u.store.Repos()
	viewer, err := resolveViewer(ctx, r, id, u.logger)
	if err != nil || viewer == nil {
		return nil, err
	}

	c, err := r.Companies.GetByExternalOrgID(ctx, orgRef)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(u.logger, "company.context", err)
	}

	m, err := r.Companies.GetMembership(ctx, c.ID, viewer.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(u.logger, "company.context", err)
	}
	if !m.IsActive() {
		return nil, nil
	}

	return &company.Context{
		CompanyID:   c.ID,
		CompanyName: c.Name,
		CompanySlug: c.Slug,
		Role:        m.Role,
		OrgRef:      c.ExternalOrgID,
	}, nil
}

// CanSubscribe reports whether the identity holds an active membership in
// companyID with any role.
func (u *Companies) CanSubscribe(ctx context.Context, id user.Identity, companyID uuid.UUID) bool {
	r := u.store.Repos()
	viewer, err := resolveViewer(ctx, r, id, u.logger)
	if err != nil || viewer == nil {
		return false
	}
	_, err = requireCompanyRole(ctx, r, companyID, viewer.ID, company.ReadRoles)
	return err == nil
}

// requireCompanyRole fails with ErrAuthorization unless userID has an active
// membership in companyID with one of roles.
func requireCompanyRole(ctx context.Context, r repository.Repositories, companyID, userID uuid.UUID, roles []company.Role) (company.Membership, error) {
	m, err := r.Companies.GetMembership(ctx, companyID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return company.Membership{}, errNoCompanyAccess
	}
	if err != nil {
		return company.Membership{}, err
	}
	if !m.Allows(roles) {
		return company.Membership{}, errNoCompanyAccess
	}
	return m, nil
}
