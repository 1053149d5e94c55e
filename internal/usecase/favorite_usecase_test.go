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

func TestFavorites_AddRemoveIdempotent(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()
	alice := identity("alice")

	require.NoError(t, f.favorites.AddFavorite(ctx, alice, b.job.ID))
	require.NoError(t, f.favorites.AddFavorite(ctx, alice, b.job.ID))

	favs, err := f.favorites.ListMyFavorites(ctx, alice, 0)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.NotNil(t, favs[0].Job)
	assert.Equal(t, "Backend Engineer", favs[0].Job.Title)

	ok, err := f.favorites.IsJobFavorited(ctx, alice, b.job.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.favorites.RemoveFavorite(ctx, alice, b.job.ID))
	require.NoError(t, f.favorites.RemoveFavorite(ctx, alice, b.job.ID))
	require.NoError(t, f.favorites.RemoveFavorite(ctx, alice, uuid.New()))

	ok, err = f.favorites.IsJobFavorited(ctx, alice, b.job.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavorites_GuestReads(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	b := f.board(t)
	ctx := context.Background()

	ok, err := f.favorites.IsJobFavorited(ctx, identity(""), b.job.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	favs, err := f.favorites.ListMyFavorites(ctx, identity(""), 10)
	require.NoError(t, err)
	assert.Empty(t, favs)

	err = f.favorites.AddFavorite(ctx, identity(""), b.job.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestFavorites_UnknownJob(t *testing.T) {
	f := newFixture(t, application.PolicyStrict)
	err := f.favorites.AddFavorite(context.Background(), identity("alice"), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}
