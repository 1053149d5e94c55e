package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"jobboard/internal/domain/application"
)

func TestApplicationStatusChanged(t *testing.T) {
	app := application.Application{
		ID:              uuid.New(),
		JobID:           uuid.New(),
		ApplicantUserID: uuid.New(),
		Status:          application.StatusInReview,
	}

	n := ApplicationStatusChanged(app, "Backend Engineer", time.Now())
	assert.Equal(t, TypeApplicationStatus, n.Type)
	assert.Equal(t, app.ApplicantUserID, n.UserID)
	assert.Equal(t, "Application in review", n.Title)
	assert.Equal(t, "Your application for Backend Engineer is now in review.", n.Message)
	assert.Equal(t, "in_review", n.Metadata["status"])
	assert.Equal(t, app.ID.String(), n.Metadata["applicationId"])
	assert.False(t, n.IsRead)

	n = ApplicationStatusChanged(app, "", time.Now())
	assert.Equal(t, "Your application status is now in review.", n.Message)
}
