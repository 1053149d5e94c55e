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

func TestGetCompanyContext(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	got, err := f.companies.GetCompanyContext(ctx, b.recruiter, "org_unsynced")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.companies.GetCompanyContext(ctx, identity(""), "org_acme")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.companies.GetCompanyContext(ctx, identity("stranger"), "org_acme")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.companies.GetCompanyContext(ctx, b.recruiter, "org_acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, company.Context{
		CompanyID:   b.company.ID,
		CompanyName: "Acme Corp",
		CompanySlug: "acme-corp",
		Role:        company.RoleRecruiter,
		OrgRef:      "org_acme",
	}, *got)

	_, err = f.sync.SyncMembership(ctx, MembershipEvent{Type: EventMembershipDeleted, OrgID: "org_acme", Member: b.recruiter})
	require.NoError(t, err)
	got, err = f.companies.GetCompanyContext(ctx, b.recruiter, "org_acme")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCanSubscribe(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	assert.True(t, f.companies.CanSubscribe(ctx, b.member, b.company.ID))
	assert.False(t, f.companies.CanSubscribe(ctx, identity("stranger"), b.company.ID))
	assert.False(t, f.companies.CanSubscribe(ctx, identity(""), b.company.ID))
}

func TestResolveViewer(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()

	v, err := f.identities.ResolveViewer(ctx, identity("new"))
	require.NoError(t, err)
	assert.Nil(t, v, "resolving never creates")

	created, err := f.identities.ResolveOrCreateViewer(ctx, identity("new"))
	require.NoError(t, err)
	require.NotNil(t, created.Email)
	assert.Equal(t, "new@example.com", *created.Email)

	again, err := f.identities.ResolveOrCreateViewer(ctx, identity("new"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	_, err = f.identities.ResolveOrCreateViewer(ctx, identity(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}
