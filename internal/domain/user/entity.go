package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the internal record for an identity verified by the external
// identity provider. ExternalID never changes once the row exists.
type User struct {
	ID         uuid.UUID
	ExternalID string
	FirstName  *string
	LastName   *string
	Email      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Identity is what the identity provider vouches for on a request.
type Identity struct {
	ExternalID string
	FirstName  string
	LastName   string
	Email      string
	OrgID      string
	OrgRole    string
}

func (i Identity) Valid() bool {
	return strings.TrimSpace(i.ExternalID) != ""
}

// NewFromIdentity builds the row created lazily on first write access.
func NewFromIdentity(id Identity, now time.Time) User {
	return User{
		ID:         uuid.New(),
		ExternalID: strings.TrimSpace(id.ExternalID),
		FirstName:  optional(id.FirstName),
		LastName:   optional(id.LastName),
		Email:      optional(strings.ToLower(id.Email)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (u User) DisplayName() string {
	parts := make([]string, 0, 2)
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	return strings.Join(parts, " ")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
