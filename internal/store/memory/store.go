// Package memory is an in-process implementation of repository.Store. A
// single mutex serializes transactions; each transaction works on a copy of
// the state that replaces the live state only when fn succeeds.
package memory

import (
	"context"
	"sync"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/favorite"
	"jobboard/internal/domain/listing"
	"jobboard/internal/domain/notification"
	"jobboard/internal/domain/profile"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu    sync.RWMutex
	state *state
}

func New() *Store {
	return &Store{state: newState()}
}

// Repos returns repositories that read and write the live state, each call
// under the store lock.
func (s *Store) Repos() repository.Repositories {
	return bind(&view{store: s})
}

func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(bind(&view{tx: draft})); err != nil {
		return err
	}
	s.state = draft
	return nil
}

func bind(v *view) repository.Repositories {
	return repository.Repositories{
		Users:         &userRepo{v},
		Companies:     &companyRepo{v},
		Listings:      &listingRepo{v},
		Applications:  &applicationRepo{v},
		Favorites:     &favoriteRepo{v},
		Notifications: &notificationRepo{v},
		Profiles:      &profileRepo{v},
	}
}

// view is either bound to a transaction draft (tx != nil, store lock already
// held) or to the live state of store.
type view struct {
	store *Store
	tx    *state
}

func (v *view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(v.store.state)
}

func (v *view) write(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	fn(v.store.state)
}

type state struct {
	users         map[uuid.UUID]user.User
	companies     map[uuid.UUID]company.Company
	memberships   map[uuid.UUID]company.Membership
	listings      map[uuid.UUID]listing.JobListing
	applications  map[uuid.UUID]application.Application
	favorites     map[uuid.UUID]favorite.Favorite
	notifications []notification.Notification
	profiles      map[uuid.UUID]profile.Profile
	resumes       map[uuid.UUID]profile.Resume
}

func newState() *state {
	return &state{
		users:        make(map[uuid.UUID]user.User),
		companies:    make(map[uuid.UUID]company.Company),
		memberships:  make(map[uuid.UUID]company.Membership),
		listings:     make(map[uuid.UUID]listing.JobListing),
		applications: make(map[uuid.UUID]application.Application),
		favorites:    make(map[uuid.UUID]favorite.Favorite),
		profiles:     make(map[uuid.UUID]profile.Profile),
		resumes:      make(map[uuid.UUID]profile.Resume),
	}
}

// clone copies the maps. Stored values are never mutated in place, so the
// entries themselves can be shared.
func (st *state) clone() *state {
	return &state{
		users:         cloneMap(st.users),
		companies:     cloneMap(st.companies),
		memberships:   cloneMap(st.memberships),
		listings:      cloneMap(st.listings),
		applications:  cloneMap(st.applications),
		favorites:     cloneMap(st.favorites),
		notifications: append([]notification.Notification(nil), st.notifications...),
		profiles:      cloneMap(st.profiles),
		resumes:       cloneMap(st.resumes),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
