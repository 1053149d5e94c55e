package dto

import (
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

type AnswerDTO struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ApplyRequest struct {
	CoverLetter *string     `json:"cover_letter"`
	ResumeID    *uuid.UUID  `json:"resume_id"`
	Answers     []AnswerDTO `json:"answers"`
}

type ApplyResponse struct {
	ApplicationID uuid.UUID `json:"application_id"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}

type ApplicationResponse struct {
	ID              uuid.UUID   `json:"id"`
	JobID           uuid.UUID   `json:"job_id"`
	CompanyID       uuid.UUID   `json:"company_id"`
	ApplicantUserID uuid.UUID   `json:"applicant_user_id"`
	Status          string      `json:"status"`
	CoverLetter     *string     `json:"cover_letter"`
	ResumeID        *uuid.UUID  `json:"resume_id"`
	Answers         []AnswerDTO `json:"answers"`
	DecidedByUserID *uuid.UUID  `json:"decided_by_user_id"`
	DecidedAt       *string     `json:"decided_at"`
	CreatedAt       string      `json:"created_at"`
	UpdatedAt       string      `json:"updated_at"`
}

type MyApplicationResponse struct {
	ApplicationResponse
	Job *JobListingResponse `json:"job"`
}

type ApplicantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Email     *string   `json:"email"`
}

type CompanyApplicationResponse struct {
	ApplicationResponse
	Job       *JobListingResponse `json:"job"`
	Applicant *ApplicantResponse  `json:"applicant"`
}

func (r ApplyRequest) Submission() application.Submission {
	sub := application.Submission{CoverLetter: r.CoverLetter, ResumeID: r.ResumeID}
	for _, a := range r.Answers {
		sub.Answers = append(sub.Answers, application.Answer{Question: a.Question, Answer: a.Answer})
	}
	return sub
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	answers := make([]AnswerDTO, 0, len(a.Answers))
	for _, ans := range a.Answers {
		answers = append(answers, AnswerDTO{Question: ans.Question, Answer: ans.Answer})
	}
	return ApplicationResponse{
		ID:              a.ID,
		JobID:           a.JobID,
		CompanyID:       a.CompanyID,
		ApplicantUserID: a.ApplicantUserID,
		Status:          string(a.Status),
		CoverLetter:     a.CoverLetter,
		ResumeID:        a.ResumeID,
		Answers:         answers,
		DecidedByUserID: a.DecidedByUserID,
		DecidedAt:       FormatTimePtr(a.DecidedAt),
		CreatedAt:       FormatTime(a.CreatedAt),
		UpdatedAt:       FormatTime(a.UpdatedAt),
	}
}

func NewApplicantResponse(u *user.User) *ApplicantResponse {
	if u == nil {
		return nil
	}
	return &ApplicantResponse{
		ID:        u.ID,
		Name:      u.DisplayName(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
