package usecase

import (
	"context"
	"time"
)

// SearchCache is the fail-open result cache in front of listing search.
// Counter errors when the cache cannot serve reads at all.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Publisher fans committed changes out to live-query subscribers. payload is
// nil for a plain invalidation.
type Publisher interface {
	Publish(topic string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
