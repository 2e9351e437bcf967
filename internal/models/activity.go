package models

import "time"

// ActivityEntry records a touchpoint with a client. Only the timestamp
// matters for engagement-recency scoring; description and type are
// informational.
type ActivityEntry struct {
	ID          string    `db:"id" json:"id"`
	ClientID    string    `db:"client_id" json:"client_id"`
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CreateActivityRequest is the payload for logging an activity.
type CreateActivityRequest struct {
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"required"`
}
