package models

import "time"

// HourEntry records labor logged against a client. Date is stored as a
// zero-padded YYYY-MM-DD string so month filters can use prefix matching.
type HourEntry struct {
	ID          string    `db:"id" json:"id"`
	ClientID    string    `db:"client_id" json:"client_id"`
	Hours       float64   `db:"hours" json:"hours"`
	Date        string    `db:"date" json:"date"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CreateHourEntryRequest is the payload for logging hours.
type CreateHourEntryRequest struct {
	Hours       float64 `json:"hours" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Description *string `json:"description,omitempty"`
}
