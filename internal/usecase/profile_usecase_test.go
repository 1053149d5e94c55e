package usecase

import (
	"context"
	"errors"
	"testing"

	"jobboard/internal/domain/application"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiles_UpsertAndGet(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()
	alice := identity("alice")

	empty, err := f.profiles.GetMyProfile(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, empty.Profile)
	assert.Empty(t, empty.Resumes)

	years := 4
	p, err := f.profiles.UpsertMyProfile(ctx, alice, ProfileInput{
		Headline:        strPtr("  Backend developer "),
		YearsExperience: &years,
		Skills:          []string{"Go", " ", "SQL "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend developer", *p.Headline)
	assert.Equal(t, []string{"Go", "SQL"}, p.Skills)
	assert.True(t, p.OpenToWork)

	closed := false
	p2, err := f.profiles.UpsertMyProfile(ctx, alice, ProfileInput{OpenToWork: &closed})
	require.NoError(t, err)
	assert.Equal(t, p.ID, p2.ID)
	assert.False(t, p2.OpenToWork)
	assert.Nil(t, p2.Headline)

	negative := -1
	_, err = f.profiles.UpsertMyProfile(ctx, alice, ProfileInput{YearsExperience: &negative})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestProfiles_ResumeDefaults(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()
	alice := identity("alice")

	first, err := f.profiles.SaveResume(ctx, alice, ResumeInput{Title: "General", FileName: "a.pdf", FileURL: "https://files.example.com/a.pdf"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault, "first resume becomes default")

	second, err := f.profiles.SaveResume(ctx, alice, ResumeInput{Title: "Backend", FileName: "b.pdf", FileURL: "https://files.example.com/b.pdf"})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	third, err := f.profiles.SaveResume(ctx, alice, ResumeInput{Title: "Lead", FileName: "c.pdf", FileURL: "https://files.example.com/c.pdf", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, third.IsDefault)

	got, err := f.profiles.GetMyProfile(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got.Resumes, 3)
	defaults := 0
	for _, r := range got.Resumes {
		if r.IsDefault {
			defaults++
			assert.Equal(t, third.ID, r.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	require.NoError(t, f.profiles.DeleteResume(ctx, alice, third.ID))
	got, err = f.profiles.GetMyProfile(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got.Resumes, 2)
	assert.Equal(t, second.ID, got.Resumes[0].ID)
	assert.True(t, got.Resumes[0].IsDefault, "newest remaining resume is promoted")
}

func TestProfiles_ResumeValidationAndOwnership(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	ctx := context.Background()

	_, err := f.profiles.SaveResume(ctx, identity("alice"), ResumeInput{Title: "CV", FileName: "cv.pdf", FileURL: "ftp://files.example.com/cv.pdf"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	bobs, err := f.profiles.SaveResume(ctx, identity("bob"), ResumeInput{Title: "CV", FileName: "cv.pdf", FileURL: "https://files.example.com/cv.pdf"})
	require.NoError(t, err)

	require.NoError(t, f.profiles.DeleteResume(ctx, identity("alice"), bobs.ID))
	require.NoError(t, f.profiles.DeleteResume(ctx, identity("alice"), uuid.New()))

	got, err := f.profiles.GetMyProfile(ctx, identity("bob"))
	require.NoError(t, err)
	assert.Len(t, got.Resumes, 1)
}
