package dto

import (
	"time"

	"jobboard/internal/domain/listing"

	"github.com/google/uuid"
)

type SalaryResponse struct {
	Min      *int64  `json:"min"`
	Max      *int64  `json:"max"`
	Currency *string `json:"currency"`
}

type JobListingResponse struct {
	ID               uuid.UUID      `json:"id"`
	CompanyID        uuid.UUID      `json:"company_id"`
	CompanyName      string         `json:"company_name"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Location         string         `json:"location"`
	EmploymentType   string         `json:"employment_type"`
	WorkplaceType    string         `json:"workplace_type"`
	Salary           SalaryResponse `json:"salary"`
	Tags             []string       `json:"tags"`
	IsActive         bool           `json:"is_active"`
	ApplicationCount int            `json:"application_count"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

type CreateJobListingRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employment_type"`
	WorkplaceType  string   `json:"workplace_type"`
	SalaryMin      *int64   `json:"salary_min"`
	SalaryMax      *int64   `json:"salary_max"`
	SalaryCurrency *string  `json:"salary_currency"`
	Tags           []string `json:"tags"`
	IsActive       *bool    `json:"is_active"`
}

// UpdateJobListingRequest leaves absent fields unchanged.
type UpdateJobListingRequest struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Location       *string   `json:"location"`
	EmploymentType *string   `json:"employment_type"`
	WorkplaceType  *string   `json:"workplace_type"`
	SalaryMin      *int64    `json:"salary_min"`
	SalaryMax      *int64    `json:"salary_max"`
	SalaryCurrency *string   `json:"salary_currency"`
	Tags           *[]string `json:"tags"`
	IsActive       *bool     `json:"is_active"`
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func FormatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

func NewJobListingResponse(l listing.JobListing) JobListingResponse {
	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}
	return JobListingResponse{
		ID:               l.ID,
		CompanyID:        l.CompanyID,
		CompanyName:      l.CompanyName,
		Title:            l.Title,
		Description:      l.Description,
		Location:         l.Location,
		EmploymentType:   string(l.EmploymentType),
		WorkplaceType:    string(l.WorkplaceType),
		Salary:           SalaryResponse{Min: l.Salary.Min, Max: l.Salary.Max, Currency: l.Salary.Currency},
		Tags:             tags,
		IsActive:         l.IsActive,
		ApplicationCount: l.ApplicationCount,
		CreatedAt:        FormatTime(l.CreatedAt),
		UpdatedAt:        FormatTime(l.UpdatedAt),
	}
}

// NewJobListingPtr maps an optional listing; nil stays nil.
func NewJobListingPtr(l *listing.JobListing) *JobListingResponse {
	if l == nil {
		return nil
	}
	out := NewJobListingResponse(*l)
	return &out
}

func NewJobListingList(items []listing.JobListing) []JobListingResponse {
	out := make([]JobListingResponse, 0, len(items))
	for _, l := range items {
		out = append(out, NewJobListingResponse(l))
	}
	return out
}
