package application

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

var (
	ErrAlreadyApplied       = errors.New("already applied")
	ErrFinalized            = errors.New("application finalized")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrInvalidDecision      = errors.New("invalid decision status")
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// Terminal statuses end the candidate's side of the workflow.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// IsDecision reports whether a company may set s.
func (s Status) IsDecision() bool {
	return s == StatusInReview || s == StatusAccepted || s == StatusRejected
}

// Label renders the status for people: "in_review" becomes "in review".
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Application is a candidate's submission to a listing. CompanyID is copied
// from the listing at creation. At most one row exists per
// (JobID, ApplicantUserID); reapplying after a withdrawal reuses it.
type Application struct {
	ID              uuid.UUID
	JobID           uuid.UUID
	CompanyID       uuid.UUID
	ApplicantUserID uuid.UUID
	Status          Status
	CoverLetter     *string
	ResumeID        *uuid.UUID
	Answers         []Answer
	DecidedByUserID *uuid.UUID
	DecidedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Submission is the candidate-provided part of an application.
type Submission struct {
	CoverLetter *string
	ResumeID    *uuid.UUID
	Answers     []Answer
}

// CanReapply is nil only when the existing row frees the slot.
func (a Application) CanReapply() error {
	if a.Status != StatusWithdrawn {
		return ErrAlreadyApplied
	}
	return nil
}

// Resubmit reopens a withdrawn application with a fresh submission. The
// previous withdrawal is not kept.
func (a *Application) Resubmit(sub Submission, now time.Time) {
	a.Status = StatusSubmitted
	a.CoverLetter = sub.CoverLetter
	a.ResumeID = sub.ResumeID
	a.Answers = sub.Answers
	a.UpdatedAt = now
}

func (a Application) CanWithdraw() error {
	if a.Status.Terminal() {
		return ErrFinalized
	}
	return nil
}

func (a *Application) Withdraw(now time.Time) error {
	if err := a.CanWithdraw(); err != nil {
		return err
	}
	a.Status = StatusWithdrawn
	a.UpdatedAt = now
	return nil
}

// Policy governs company decisions.
type Policy string

const (
	// PolicyStrict forbids leaving accepted/rejected and deciding on a
	// withdrawn application.
	PolicyStrict Policy = "strict"
	// PolicyPermissive allows any decision from any status.
	PolicyPermissive Policy = "permissive"
)

func (p Policy) CanDecide(from, to Status) error {
	if !to.IsDecision() {
		return ErrInvalidDecision
	}
	if p == PolicyPermissive {
		return nil
	}
	if from.Terminal() && from != to {
		return ErrTransitionNotAllowed
	}
	if from == StatusWithdrawn {
		return ErrTransitionNotAllowed
	}
	return nil
}

func (a *Application) Decide(p Policy, to Status, by uuid.UUID, now time.Time) error {
	if err := p.CanDecide(a.Status, to); err != nil {
		return err
	}
	a.Status = to
	a.DecidedByUserID = &by
	a.DecidedAt = &now
	a.UpdatedAt = now
	return nil
}
