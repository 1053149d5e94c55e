package usecase

import (
	"context"
	"errors"

	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/sirupsen/logrus"
)

// Identities maps provider identities to internal users.
type Identities struct {
	store  repository.Store
	clock  Clock
	logger logrus.FieldLogger
}

func NewIdentities(store repository.Store, clock Clock, logger logrus.FieldLogger) *Identities {
	return &Identities{store: store, clock: clock, logger: logger}
}

// ResolveViewer returns the user for id without creating one. Guests and
// identities never seen before resolve to nil.
func (u *Identities) ResolveViewer(ctx context.Context, id user.Identity) (*user.User, error) {
	return resolveViewer(ctx, u.store.Repos(), id, u.logger)
}

// ResolveOrCreateViewer returns the user for id, creating it on first use.
// Concurrent first calls converge on one row.
func (u *Identities) ResolveOrCreateViewer(ctx context.Context, id user.Identity) (user.User, error) {
	if !id.Valid() {
		return user.User{}, errSignInRequired
	}
	var out user.User
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		usr, err := resolveOrCreate(ctx, r, id, u.clock)
		out = usr
		return err
	})
	if err != nil {
		return user.User{}, internal(u.logger, "identity.resolve_or_create", err)
	}
	return out, nil
}

func resolveViewer(ctx context.Context, r repository.Repositories, id user.Identity, logger logrus.FieldLogger) (*user.User, error) {
	if !id.Valid() {
		return nil, nil
	}
	usr, err := r.Users.GetByExternalID(ctx, id.ExternalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(logger, "identity.resolve", err)
	}
	return &usr, nil
}

func resolveOrCreate(ctx context.Context, r repository.Repositories, id user.Identity, clock Clock) (user.User, error) {
	if !id.Valid() {
		return user.User{}, errSignInRequired
	}
	usr, err := r.Users.GetByExternalID(ctx, id.ExternalID)
	if err == nil {
		return usr, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return user.User{}, err
	}
	return r.Users.CreateIfAbsent(ctx, user.NewFromIdentity(id, clock.now()))
}
