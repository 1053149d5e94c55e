package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/listing"
	"jobboard/internal/domain/user"
	"jobboard/internal/store/memory"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(topic string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = nil
}

type fakeCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	counters map[string]int64
	gets     int
	hits     int
	disabled bool

	// beforeSet runs once, outside the lock, before the next SetJSON stores.
	beforeSet func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte), counters: make(map[string]int64)}
}

func (c *fakeCache) Counter(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return 0, errors.New("cache disabled")
	}
	return c.counters[key], nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *fakeCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func steppingClock() Clock {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	store *memory.Store
	pub   *recordingPublisher
	cache *fakeCache
	logs  *test.Hook

	identities   *Identities
	companies    *Companies
	listings     *Listings
	applications *Applications
	favorites    *Favorites
	profiles     *Profiles
	sync         *OrgSync
}

func newFixture(t *testing.T, policy application.Policy) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	store := memory.New()
	pub := &recordingPublisher{}
	cache := newFakeCache()
	clock := steppingClock()

	return &fixture{
		store:        store,
		pub:          pub,
		cache:        cache,
		logs:         hook,
		identities:   NewIdentities(store, clock, logger),
		companies:    NewCompanies(store, logger),
		listings:     NewListings(store, cache, pub, clock, logger),
		applications: NewApplications(store, policy, cache, pub, clock, logger),
		favorites:    NewFavorites(store, pub, clock, logger),
		profiles:     NewProfiles(store, clock, logger),
		sync:         NewOrgSync(store, pub, clock, logger),
	}
}

func identity(externalID string) user.Identity {
	return user.Identity{ExternalID: externalID, FirstName: "Test", LastName: strings.ToUpper(externalID), Email: externalID + "@example.com"}
}

func (f *fixture) company(t *testing.T, orgID, name string) company.Company {
	t.Helper()
	c, err := f.sync.SyncOrganization(context.Background(), OrganizationEvent{Type: EventOrganizationCreated, OrgID: orgID, Name: name})
	require.NoError(t, err)
	require.NotNil(t, c)
	return *c
}

func (f *fixture) member(t *testing.T, orgID string, id user.Identity, role string) {
	t.Helper()
	_, err := f.sync.SyncMembership(context.Background(), MembershipEvent{Type: EventMembershipCreated, OrgID: orgID, Member: id, Role: role})
	require.NoError(t, err)
}

func (f *fixture) listing(t *testing.T, recruiter user.Identity, orgID, title string) listing.JobListing {
	t.Helper()
	c, err := f.store.Repos().Companies.GetByExternalOrgID(context.Background(), orgID)
	require.NoError(t, err)
	l, err := f.listings.CreateListing(context.Background(), recruiter, c.ID, ListingInput{
		Title:          title,
		Description:    "Build things.",
		Location:       "Berlin, Germany",
		EmploymentType: listing.EmploymentFullTime,
		WorkplaceType:  listing.WorkplaceHybrid,
		Tags:           []string{"go", "postgres"},
	})
	require.NoError(t, err)
	return l
}

// board is a company "org_acme" with an admin, a recruiter and a member, and
// one open listing.
type board struct {
	company   company.Company
	admin     user.Identity
	recruiter user.Identity
	member    user.Identity
	job       listing.JobListing
}

func (f *fixture) board(t *testing.T) board {
	t.Helper()
	b := board{
		admin:     identity("admin"),
		recruiter: identity("recruiter"),
		member:    identity("member"),
	}
	b.company = f.company(t, "org_acme", "Acme Corp")
	f.member(t, "org_acme", b.admin, "org:admin")
	f.member(t, "org_acme", b.recruiter, "org:recruiter")
	f.member(t, "org_acme", b.member, "org:member")
	b.job = f.listing(t, b.recruiter, "org_acme", "Backend Engineer")
	return b
}

func strPtr(s string) *string { return &s }
