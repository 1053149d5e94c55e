package dto

import "github.com/google/uuid"

type FavoriteResponse struct {
	ID        uuid.UUID           `json:"id"`
	JobID     uuid.UUID           `json:"job_id"`
	CreatedAt string              `json:"created_at"`
	Job       *JobListingResponse `json:"job"`
}

type FavoriteStatusResponse struct {
	JobID     uuid.UUID `json:"job_id"`
	Favorited bool      `json:"favorited"`
}
