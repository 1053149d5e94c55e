package listing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentTemporary  EmploymentType = "temporary"
)

type WorkplaceType string

const (
	WorkplaceOnSite WorkplaceType = "on_site"
	WorkplaceRemote WorkplaceType = "remote"
	WorkplaceHybrid WorkplaceType = "hybrid"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship, EmploymentTemporary:
		return true
	default:
		return false
	}
}

func (t WorkplaceType) Valid() bool {
	switch t {
	case WorkplaceOnSite, WorkplaceRemote, WorkplaceHybrid:
		return true
	default:
		return false
	}
}

// Salary is an optional range; any field may be unset.
type Salary struct {
	Min      *int64
	Max      *int64
	Currency *string
}

func (s Salary) Valid() bool {
	if s.Min != nil && *s.Min < 0 {
		return false
	}
	if s.Max != nil && *s.Max < 0 {
		return false
	}
	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		return false
	}
	return true
}

// JobListing is a posting owned by a company. ApplicationCount is a
// projection of submitted applications maintained in the same transaction as
// each apply.
type JobListing struct {
	ID               uuid.UUID
	CompanyID        uuid.UUID
	CompanyName      string
	Title            string
	Description      string
	Location         string
	EmploymentType   EmploymentType
	WorkplaceType    WorkplaceType
	Salary           Salary
	Tags             []string
	IsActive         bool
	ApplicationCount int
	CreatedByUserID  *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SearchFilter selects active listings. Empty fields do not filter.
type SearchFilter struct {
	Text           string
	Location       string
	WorkplaceType  WorkplaceType
	EmploymentType EmploymentType
	Limit          int
}

// Matches applies the filter semantics in memory: active only,
// case-insensitive substring on title, company name and tags, substring on
// location and equality on enums.
func (f SearchFilter) Matches(l JobListing) bool {
	if !l.IsActive {
		return false
	}
	if f.WorkplaceType != "" && l.WorkplaceType != f.WorkplaceType {
		return false
	}
	if f.EmploymentType != "" && l.EmploymentType != f.EmploymentType {
		return false
	}
	if loc := strings.ToLower(strings.TrimSpace(f.Location)); loc != "" {
		if !strings.Contains(strings.ToLower(l.Location), loc) {
			return false
		}
	}
	text := strings.ToLower(strings.TrimSpace(f.Text))
	if text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(l.Title), text) || strings.Contains(strings.ToLower(l.CompanyName), text) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), text) {
			return true
		}
	}
	return false
}

// NormalizeTags trims tags and drops empties and case-insensitive duplicates,
// keeping the first spelling and the original order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.Join(strings.Fields(t), " ")
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
