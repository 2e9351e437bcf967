package models

import "time"

// OperationalCost is a recurring or one-off agency expense.
type OperationalCost struct {
	ID          string    `db:"id" json:"id"`
	Description string    `db:"description" json:"description"`
	Amount      float64   `db:"amount" json:"amount"`
	Category    *string   `db:"category" json:"category,omitempty"`
	Date        string    `db:"date" json:"date"`
	Recurring   bool      `db:"recurring" json:"recurring"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CreateCostRequest is the payload for recording an operational cost.
type CreateCostRequest struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Category    *string `json:"category,omitempty"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Recurring   bool    `json:"recurring"`
}

// WorkspaceSettings holds agency-wide tunables, currently the labor rate
// used by profitability calculations.
type WorkspaceSettings struct {
	HourlyRate float64   `db:"hourly_rate" json:"hourly_rate"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// UpdateSettingsRequest is the payload for adjusting workspace settings.
type UpdateSettingsRequest struct {
	HourlyRate *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
}
