package usecase

import (
	"context"
	"errors"
	"testing"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncOrganization_UpsertsAndRenames(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()

	created, err := f.sync.SyncOrganization(ctx, OrganizationEvent{Type: EventOrganizationCreated, OrgID: "org_1", Name: "  Initech Labs "})
	require.NoError(t, err)
	assert.Equal(t, "Initech Labs", created.Name)
	assert.Equal(t, "initech-labs", created.Slug)

	renamed, err := f.sync.SyncOrganization(ctx, OrganizationEvent{Type: EventOrganizationUpdated, OrgID: "org_1", Name: "Initech", Slug: "initech"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, renamed.ID)
	assert.Equal(t, "Initech", renamed.Name)

	stored, err := f.store.Repos().Companies.GetByExternalOrgID(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, "initech", stored.Slug)
	assert.Contains(t, f.pub.published(), TopicListings)
}

func TestSyncOrganization_Validation(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()

	_, err := f.sync.SyncOrganization(ctx, OrganizationEvent{Type: EventOrganizationCreated, Name: "No Id"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.sync.SyncOrganization(ctx, OrganizationEvent{Type: "organization.archived", OrgID: "org_1", Name: "X"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.sync.SyncOrganization(ctx, OrganizationEvent{Type: EventOrganizationCreated, OrgID: "org_1"})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSyncOrganization_DeletedKeepsCompany(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()
	f.company(t, "org_1", "Initech")

	out, err := f.sync.SyncOrganization(ctx, OrganizationEvent{Type: EventOrganizationDeleted, OrgID: "org_1"})
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = f.store.Repos().Companies.GetByExternalOrgID(ctx, "org_1")
	assert.NoError(t, err)
}

func TestSyncOrganization_SlugTakenByAnotherOrg(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	f.company(t, "org_1", "Initech")

	_, err := f.sync.SyncOrganization(context.Background(), OrganizationEvent{Type: EventOrganizationCreated, OrgID: "org_2", Name: "Initech"})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestSyncMembership_CreatesUserAndNormalizesRole(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()
	c := f.company(t, "org_1", "Initech")
	peter := identity("peter")

	m, err := f.sync.SyncMembership(ctx, MembershipEvent{Type: EventMembershipCreated, OrgID: "org_1", Member: peter, Role: "org:recruiter"})
	require.NoError(t, err)
	assert.Equal(t, company.RoleRecruiter, m.Role)
	assert.Equal(t, company.MembershipActive, m.Status)
	assert.Equal(t, c.ID, m.CompanyID)

	u, err := f.store.Repos().Users.GetByExternalID(ctx, "peter")
	require.NoError(t, err)
	assert.Equal(t, u.ID, m.UserID)

	again, err := f.sync.SyncMembership(ctx, MembershipEvent{Type: EventMembershipUpdated, OrgID: "org_1", Member: peter, Role: "member"})
	require.NoError(t, err)
	assert.Equal(t, m.ID, again.ID)
	assert.Equal(t, company.RoleMember, again.Role)
}

func TestSyncMembership_DeletedDeactivatesAndKeepsRole(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()
	c := f.company(t, "org_1", "Initech")
	peter := identity("peter")
	f.member(t, "org_1", peter, "org:admin")

	m, err := f.sync.SyncMembership(ctx, MembershipEvent{Type: EventMembershipDeleted, OrgID: "org_1", Member: peter})
	require.NoError(t, err)
	assert.Equal(t, company.MembershipInactive, m.Status)
	assert.Equal(t, company.RoleAdmin, m.Role)

	_, err = f.listings.ListCompanyJobs(ctx, peter, c.ID, true, 0)
	assert.True(t, errors.Is(err, ErrAuthorization))
}

func TestSyncMembership_Errors(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()
	f.company(t, "org_1", "Initech")

	_, err := f.sync.SyncMembership(ctx, MembershipEvent{Type: EventMembershipCreated, OrgID: "org_missing", Member: identity("peter"), Role: "admin"})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.sync.SyncMembership(ctx, MembershipEvent{Type: EventMembershipCreated, OrgID: "org_1", Member: identity("peter"), Role: "owner"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.sync.SyncMembership(ctx, MembershipEvent{Type: EventMembershipCreated, OrgID: "org_1", Role: "admin"})
	assert.True(t, errors.Is(err, ErrValidation))
}
