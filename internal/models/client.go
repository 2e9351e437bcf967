package models

import "time"

// ContractType enumerates the billing arrangements a client can be on.
type ContractType string

const (
	ContractFixed     ContractType = "fixed"
	ContractFreelance ContractType = "freelance"
)

// ClientStatus represents the lifecycle state of a client engagement.
type ClientStatus string

const (
	ClientActive     ClientStatus = "active"
	ClientPaused     ClientStatus = "paused"
	ClientTerminated ClientStatus = "terminated"
)

// Client represents a customer record managed by the agency.
type Client struct {
	ID                 string       `db:"id" json:"id"`
	Name               string       `db:"name" json:"name"`
	Email              *string      `db:"email" json:"email,omitempty"`
	Phone              *string      `db:"phone" json:"phone,omitempty"`
	Service            *string      `db:"service" json:"service,omitempty"`
	MonthlyValue       *float64     `db:"monthly_value" json:"monthly_value,omitempty"`
	ContractType       ContractType `db:"contract_type" json:"contract_type"`
	StartDate          *time.Time   `db:"start_date" json:"start_date,omitempty"`
	Status             ClientStatus `db:"status" json:"status"`
	Notes              *string      `db:"notes" json:"notes,omitempty"`
	WeeklyPlannedHours *float64     `db:"weekly_planned_hours" json:"weekly_planned_hours,omitempty"`
	PortalHash         *string      `db:"portal_hash" json:"portal_hash,omitempty"`
	PortalActive       bool         `db:"portal_active" json:"portal_active"`
	PortalLastAccess   *time.Time   `db:"portal_last_access" json:"portal_last_access,omitempty"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}

// ClientFilter encapsulates allowed search parameters for listing clients.
type ClientFilter struct {
	Search    string
	Status    *ClientStatus
	Service   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CreateClientRequest is the payload for registering a client.
type CreateClientRequest struct {
	Name               string   `json:"name" validate:"required"`
	Email              *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string  `json:"phone,omitempty"`
	Service            *string  `json:"service,omitempty"`
	MonthlyValue       *float64 `json:"monthly_value,omitempty" validate:"omitempty,gte=0"`
	ContractType       string   `json:"contract_type" validate:"required,oneof=fixed freelance"`
	StartDate          *string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status             string   `json:"status" validate:"required,oneof=active paused terminated"`
	Notes              *string  `json:"notes,omitempty"`
	WeeklyPlannedHours *float64 `json:"weekly_planned_hours,omitempty" validate:"omitempty,gte=0"`
	PortalActive       *bool    `json:"portal_active,omitempty"`
}

// UpdateClientRequest is the payload for modifying a client. All fields optional.
type UpdateClientRequest struct {
	Name               *string  `json:"name,omitempty"`
	Email              *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string  `json:"phone,omitempty"`
	Service            *string  `json:"service,omitempty"`
	MonthlyValue       *float64 `json:"monthly_value,omitempty" validate:"omitempty,gte=0"`
	ContractType       *string  `json:"contract_type,omitempty" validate:"omitempty,oneof=fixed freelance"`
	StartDate          *string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status             *string  `json:"status,omitempty" validate:"omitempty,oneof=active paused terminated"`
	Notes              *string  `json:"notes,omitempty"`
	WeeklyPlannedHours *float64 `json:"weekly_planned_hours,omitempty" validate:"omitempty,gte=0"`
	PortalActive       *bool    `json:"portal_active,omitempty"`
}
