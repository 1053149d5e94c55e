package company

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleRecruiter Role = "recruiter"
	RoleMember    Role = "member"
)

type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "active"
	MembershipInactive MembershipStatus = "inactive"
)

var (
	// ReadRoles may view company-scoped data.
	ReadRoles = []Role{RoleAdmin, RoleRecruiter, RoleMember}
	// WriteRoles may manage listings and decide applications.
	WriteRoles = []Role{RoleAdmin, RoleRecruiter}
)

type Company struct {
	ID            uuid.UUID
	ExternalOrgID string
	Name          string
	Slug          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Membership binds a user to a company. At most one exists per
// (CompanyID, UserID).
type Membership struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Role      Role
	Status    MembershipStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Membership) IsActive() bool {
	return m.Status == MembershipActive
}

// Allows reports whether an active membership holds one of roles.
func (m Membership) Allows(roles []Role) bool {
	if !m.IsActive() {
		return false
	}
	for _, r := range roles {
		if m.Role == r {
			return true
		}
	}
	return false
}

// ParseRole accepts both plain roles and the provider's "org:" prefixed form.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "org:")
	switch Role(s) {
	case RoleAdmin, RoleRecruiter, RoleMember:
		return Role(s), true
	default:
		return "", false
	}
}

// Context is the caller's view of a company they actively belong to.
type Context struct {
	CompanyID   uuid.UUID
	CompanyName string
	CompanySlug string
	Role        Role
	OrgRef      string
}

// Slugify derives a URL slug from a company name.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
