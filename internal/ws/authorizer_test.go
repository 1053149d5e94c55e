package ws

import (
	"context"
	"testing"

	"jobboard/internal/domain/user"
	"jobboard/internal/store/memory"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicAuthorizer(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	store := memory.New()
	sync := usecase.NewOrgSync(store, nil, nil, logger)
	identities := usecase.NewIdentities(store, nil, logger)
	auth := NewTopicAuthorizer(identities, usecase.NewCompanies(store, logger))

	recruiter := user.Identity{ExternalID: "user_recruiter"}
	outsider := user.Identity{ExternalID: "user_outsider"}
	guest := user.Identity{}

	c, err := sync.SyncOrganization(ctx, usecase.OrganizationEvent{Type: usecase.EventOrganizationCreated, OrgID: "org_acme", Name: "Acme"})
	require.NoError(t, err)
	_, err = sync.SyncMembership(ctx, usecase.MembershipEvent{Type: usecase.EventMembershipCreated, OrgID: "org_acme", Member: recruiter, Role: "recruiter"})
	require.NoError(t, err)
	me, err := identities.ResolveOrCreateViewer(ctx, outsider)
	require.NoError(t, err)

	assert.True(t, auth.CanSubscribe(ctx, guest, usecase.TopicListings))
	assert.True(t, auth.CanSubscribe(ctx, guest, usecase.ListingTopic(uuid.New())))
	assert.False(t, auth.CanSubscribe(ctx, guest, "listings:everything"))

	own := usecase.UserTopic(me.ID, usecase.FeedNotifications)
	assert.True(t, auth.CanSubscribe(ctx, outsider, own))
	assert.False(t, auth.CanSubscribe(ctx, recruiter, own))
	assert.False(t, auth.CanSubscribe(ctx, guest, own))

	companyFeed := usecase.CompanyTopic(c.ID, usecase.FeedApplications)
	assert.True(t, auth.CanSubscribe(ctx, recruiter, companyFeed))
	assert.False(t, auth.CanSubscribe(ctx, outsider, companyFeed))
	assert.False(t, auth.CanSubscribe(ctx, guest, companyFeed))
}
