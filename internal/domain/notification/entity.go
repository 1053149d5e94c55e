package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/domain/application"
)

const TypeApplicationStatus = "application_status"

// Notification is an append-only, user-facing event record.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Title     string
	Message   string
	Metadata  map[string]string
	IsRead    bool
	CreatedAt time.Time
}

// ApplicationStatusChanged builds the notice sent to an applicant after a
// company decision. jobTitle is empty when the listing no longer exists.
func ApplicationStatusChanged(app application.Application, jobTitle string, now time.Time) Notification {
	label := app.Status.Label()
	msg := fmt.Sprintf("Your application status is now %s.", label)
	if jobTitle != "" {
		msg = fmt.Sprintf("Your application for %s is now %s.", jobTitle, label)
	}
	return Notification{
		ID:      uuid.New(),
		UserID:  app.ApplicantUserID,
		Type:    TypeApplicationStatus,
		Title:   "Application " + label,
		Message: msg,
		Metadata: map[string]string{
			"applicationId": app.ID.String(),
			"jobId":         app.JobID.String(),
			"status":        string(app.Status),
		},
		IsRead:    false,
		CreatedAt: now,
	}
}
