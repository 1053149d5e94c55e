package usecase

import (
	"context"
	"errors"
	"testing"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/listing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchListings_NeverReturnsClosedListings(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()
	closed := f.listing(t, b.recruiter, "org_acme", "Backend Lead")

	_, err := f.listings.CloseListing(ctx, b.recruiter, b.company.ID, closed.ID)
	require.NoError(t, err)

	for _, text := range []string{"", "backend", "acme", "POSTGRES"} {
		got, err := f.listings.SearchListings(ctx, listing.SearchFilter{Text: text})
		require.NoError(t, err)
		require.Len(t, got, 1, text)
		assert.Equal(t, b.job.ID, got[0].ID)
		assert.True(t, got[0].IsActive)
	}
}

func TestSearchListings_FiltersAndOrder(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	remote, err := f.listings.CreateListing(ctx, b.recruiter, b.company.ID, ListingInput{
		Title:          "Data Engineer",
		Description:    "Pipelines.",
		Location:       "Remote, EU",
		EmploymentType: listing.EmploymentContract,
		WorkplaceType:  listing.WorkplaceRemote,
		Tags:           []string{"Kafka"},
	})
	require.NoError(t, err)

	got, err := f.listings.SearchListings(ctx, listing.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, remote.ID, got[0].ID, "most recently updated first")

	got, err = f.listings.SearchListings(ctx, listing.SearchFilter{WorkplaceType: listing.WorkplaceRemote})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, remote.ID, got[0].ID)

	got, err = f.listings.SearchListings(ctx, listing.SearchFilter{Location: "berlin"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.job.ID, got[0].ID)

	got, err = f.listings.SearchListings(ctx, listing.SearchFilter{Text: "kafka", EmploymentType: listing.EmploymentContract})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = f.listings.SearchListings(ctx, listing.SearchFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = f.listings.SearchListings(ctx, listing.SearchFilter{WorkplaceType: "moon"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSearchListings_CachesAndInvalidatesOnWrites(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	_, err := f.listings.SearchListings(ctx, listing.SearchFilter{Text: "backend"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.size())

	got, err := f.listings.SearchListings(ctx, listing.SearchFilter{Text: "  BACKEND "})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, f.cache.hits)

	_, err = f.applications.ApplyToJob(ctx, identity("alice"), b.job.ID, application.Submission{})
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.size(), "apply changes the listing counter")

	got, err = f.listings.SearchListings(ctx, listing.SearchFilter{Text: "backend"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ApplicationCount)

	_, err = f.listings.CloseListing(ctx, b.recruiter, b.company.ID, b.job.ID)
	require.NoError(t, err)
	got, err = f.listings.SearchListings(ctx, listing.SearchFilter{Text: "backend"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchListings_WriteDuringReadIsNotServedFromCache(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	f.cache.beforeSet = func() {
		_, err := f.listings.CloseListing(ctx, b.recruiter, b.company.ID, b.job.ID)
		require.NoError(t, err)
	}
	got, err := f.listings.SearchListings(ctx, listing.SearchFilter{Text: "backend"})
	require.NoError(t, err)
	require.Len(t, got, 1, "the read ran before the close committed")

	got, err = f.listings.SearchListings(ctx, listing.SearchFilter{Text: "backend"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, f.cache.hits)
}

func TestSearchListings_ApplyDuringReadRefreshesCount(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	f.cache.beforeSet = func() {
		_, err := f.applications.ApplyToJob(ctx, identity("alice"), b.job.ID, application.Submission{})
		require.NoError(t, err)
	}
	got, err := f.listings.SearchListings(ctx, listing.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].ApplicationCount)

	got, err = f.listings.SearchListings(ctx, listing.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ApplicationCount)
}

func TestSearchListings_DisabledCacheIsBypassed(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	f.board(t)
	f.cache.disabled = true
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := f.listings.SearchListings(ctx, listing.SearchFilter{Text: "backend"})
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, 0, f.cache.gets)
	assert.Equal(t, 0, f.cache.size())
}

func TestCreateListing_Validation(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()
	lo, hi := int64(90000), int64(50000)

	cases := map[string]ListingInput{
		"missing title":   {Description: "d", Location: "l", EmploymentType: listing.EmploymentFullTime, WorkplaceType: listing.WorkplaceOnSite},
		"bad employment":  {Title: "t", Description: "d", Location: "l", EmploymentType: "gig", WorkplaceType: listing.WorkplaceOnSite},
		"inverted salary": {Title: "t", Description: "d", Location: "l", EmploymentType: listing.EmploymentFullTime, WorkplaceType: listing.WorkplaceOnSite, Salary: listing.Salary{Min: &lo, Max: &hi}},
	}
	for name, in := range cases {
		_, err := f.listings.CreateListing(ctx, b.recruiter, b.company.ID, in)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrValidation), name)
	}
}

func TestCreateListing_RequiresWriteRole(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()
	in := ListingInput{Title: "t", Description: "d", Location: "l", EmploymentType: listing.EmploymentFullTime, WorkplaceType: listing.WorkplaceOnSite}

	_, err := f.listings.CreateListing(ctx, b.member, b.company.ID, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthorization))

	l, err := f.listings.CreateListing(ctx, b.admin, b.company.ID, in)
	require.NoError(t, err)
	assert.True(t, l.IsActive)
	assert.Equal(t, "Acme Corp", l.CompanyName)
}

func TestUpdateListing_PatchAndReopen(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	closed, err := f.listings.CloseListing(ctx, b.recruiter, b.company.ID, b.job.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)

	active := true
	tags := []string{" Go ", "go", "Kubernetes"}
	updated, err := f.listings.UpdateListing(ctx, b.recruiter, b.company.ID, b.job.ID, ListingPatch{
		Title:    strPtr("Senior Backend Engineer"),
		Tags:     &tags,
		IsActive: &active,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Equal(t, "Senior Backend Engineer", updated.Title)
	assert.Equal(t, "Build things.", updated.Description)
	assert.Equal(t, []string{"Go", "Kubernetes"}, updated.Tags)

	_, err = f.listings.UpdateListing(ctx, b.recruiter, b.company.ID, uuid.New(), ListingPatch{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateListing_OtherCompanysListingIsNotFound(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	other := f.company(t, "org_globex", "Globex")
	f.member(t, "org_globex", b.recruiter, "recruiter")

	_, err := f.listings.CloseListing(ctx, b.recruiter, other.ID, b.job.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListCompanyJobs_IncludeClosed(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()
	extra := f.listing(t, b.recruiter, "org_acme", "SRE")
	_, err := f.listings.CloseListing(ctx, b.recruiter, b.company.ID, extra.ID)
	require.NoError(t, err)

	open, err := f.listings.ListCompanyJobs(ctx, b.member, b.company.ID, false, 0)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	all, err := f.listings.ListCompanyJobs(ctx, b.member, b.company.ID, true, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.listings.ListCompanyJobs(ctx, identity("stranger"), b.company.ID, true, 0)
	require.Error(t, err)
}

func TestGetJobListingByID(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	got, err := f.listings.GetJobListingByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.listings.CloseListing(ctx, b.recruiter, b.company.ID, b.job.ID)
	require.NoError(t, err)
	got, err = f.listings.GetJobListingByID(ctx, b.job.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
}
