package profile

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is a candidate's self-description. One per user.
type Profile struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Headline        *string
	Bio             *string
	Location        *string
	YearsExperience *int
	Skills          []string
	OpenToWork      bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Resume references a file stored elsewhere; only the link is kept.
type Resume struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	FileName  string
	FileURL   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidFileURL accepts absolute http(s) URLs only.
func ValidFileURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
