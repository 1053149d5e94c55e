package usecase

import (
	"context"
	"errors"

	"jobboard/internal/domain/favorite"
	"jobboard/internal/domain/listing"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type FavoriteWithJob struct {
	favorite.Favorite
	Job *listing.JobListing
}

type Favorites struct {
	store     repository.Store
	publisher Publisher
	clock     Clock
	logger    logrus.FieldLogger
}

func NewFavorites(store repository.Store, publisher Publisher, clock Clock, logger logrus.FieldLogger) *Favorites {
	return &Favorites{store: store, publisher: publisherOrNop(publisher), clock: clock, logger: logger}
}

// AddFavorite is idempotent.
func (u *Favorites) AddFavorite(ctx context.Context, id user.Identity, jobID uuid.UUID) error {
	var viewerID uuid.UUID
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}
		viewerID = viewer.ID
		err = r.Favorites.Add(ctx, favorite.Favorite{
			ID:        uuid.New(),
			UserID:    viewer.ID,
			JobID:     jobID,
			CreatedAt: u.clock.now(),
		})
		if errors.Is(err, repository.ErrNotFound) {
			return errJobUnavailableMissing
		}
		return err
	})
	if err != nil {
		return internal(u.logger, "favorite.add", err)
	}
	u.publisher.Publish(UserTopic(viewerID, FeedFavorites), nil)
	return nil
}

// RemoveFavorite is idempotent.
func (u *Favorites) RemoveFavorite(ctx context.Context, id user.Identity, jobID uuid.UUID) error {
	var viewerID uuid.UUID
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}
		viewerID = viewer.ID
		return r.Favorites.Remove(ctx, viewer.ID, jobID)
	})
	if err != nil {
		return internal(u.logger, "favorite.remove", err)
	}
	u.publisher.Publish(UserTopic(viewerID, FeedFavorites), nil)
	return nil
}

// IsJobFavorited is false for guests.
func (u *Favorites) IsJobFavorited(ctx context.Context, id user.Identity, jobID uuid.UUID) (bool, error) {
	r := u.store.Repos()
	viewer, err := resolveViewer(ctx, r, id, u.logger)
	if err != nil || viewer == nil {
		return false, err
	}
	ok, err := r.Favorites.Exists(ctx, viewer.ID, jobID)
	if err != nil {
		return false, internal(u.logger, "favorite.exists", err)
	}
	return ok, nil
}

// ListMyFavorites returns the caller's favorites newest first, each with its
// listing when it still exists. Guests get an empty list.
func (u *Favorites) ListMyFavorites(ctx context.Context, id user.Identity, limit int) ([]FavoriteWithJob, error) {
	r := u.store.Repos()
	viewer, err := resolveViewer(ctx, r, id, u.logger)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return []FavoriteWithJob{}, nil
	}

	favs, err := r.Favorites.ListByUser(ctx, viewer.ID, repository.ClampLimit(limit, repository.DefaultFavoritesLimit, repository.MaxFavoritesLimit))
	if err != nil {
		return nil, internal(u.logger, "favorite.list", err)
	}
	ids := make([]uuid.UUID, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.JobID)
	}
	jobs, err := r.Listings.GetByIDs(ctx, ids)
	if err != nil {
		return nil, internal(u.logger, "favorite.list", err)
	}

	out := make([]FavoriteWithJob, 0, len(favs))
	for _, f := range favs {
		out = append(out, FavoriteWithJob{Favorite: f, Job: lookup(jobs, f.JobID)})
	}
	return out, nil
}
