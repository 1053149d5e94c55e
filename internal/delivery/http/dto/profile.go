package dto

import (
	"jobboard/internal/domain/profile"

	"github.com/google/uuid"
)

type UpsertProfileRequest struct {
	Headline        *string  `json:"headline"`
	Bio             *string  `json:"bio"`
	Location        *string  `json:"location"`
	YearsExperience *int     `json:"years_experience"`
	Skills          []string `json:"skills"`
	OpenToWork      *bool    `json:"open_to_work"`
}

type SaveResumeRequest struct {
	Title     string `json:"title"`
	FileName  string `json:"file_name"`
	FileURL   string `json:"file_url"`
	IsDefault bool   `json:"is_default"`
}

type ProfileResponse struct {
	ID              uuid.UUID `json:"id"`
	Headline        *string   `json:"headline"`
	Bio             *string   `json:"bio"`
	Location        *string   `json:"location"`
	YearsExperience *int      `json:"years_experience"`
	Skills          []string  `json:"skills"`
	OpenToWork      bool      `json:"open_to_work"`
	UpdatedAt       string    `json:"updated_at"`
}

type ResumeResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	IsDefault bool      `json:"is_default"`
	CreatedAt string    `json:"created_at"`
}

type MyProfileResponse struct {
	Profile *ProfileResponse `json:"profile"`
	Resumes []ResumeResponse `json:"resumes"`
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		ID:              p.ID,
		Headline:        p.Headline,
		Bio:             p.Bio,
		Location:        p.Location,
		YearsExperience: p.YearsExperience,
		Skills:          skills,
		OpenToWork:      p.OpenToWork,
		UpdatedAt:       FormatTime(p.UpdatedAt),
	}
}

func NewResumeResponse(r profile.Resume) ResumeResponse {
	return ResumeResponse{
		ID:        r.ID,
		Title:     r.Title,
		FileName:  r.FileName,
		FileURL:   r.FileURL,
		IsDefault: r.IsDefault,
		CreatedAt: FormatTime(r.CreatedAt),
	}
}
