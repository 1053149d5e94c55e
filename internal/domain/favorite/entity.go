package favorite

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a bookmark of a listing. One per (UserID, JobID).
type Favorite struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	JobID     uuid.UUID
	CreatedAt time.Time
}
