package models

import "time"

// TaskStatus enumerates task workflow states.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// TaskPriority enumerates explicit task urgency levels.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task represents a unit of work, optionally scoped to a client.
// Deadline is a calendar date (time component always midnight UTC).
type Task struct {
	ID            string       `db:"id" json:"id"`
	Title         string       `db:"title" json:"title"`
	Description   *string      `db:"description" json:"description,omitempty"`
	ClientID      *string      `db:"client_id" json:"client_id,omitempty"`
	AssigneeID    *string      `db:"assignee_id" json:"assignee_id,omitempty"`
	Status        TaskStatus   `db:"status" json:"status"`
	Priority      TaskPriority `db:"priority" json:"priority"`
	Deadline      *time.Time   `db:"deadline" json:"deadline,omitempty"`
	PortalVisible bool         `db:"portal_visible" json:"portal_visible"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	ClientID  string
	Status    *TaskStatus
	Priority  *TaskPriority
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title         string  `json:"title" validate:"required"`
	Description   *string `json:"description,omitempty"`
	ClientID      *string `json:"client_id,omitempty"`
	AssigneeID    *string `json:"assignee_id,omitempty"`
	Status        string  `json:"status" validate:"required,oneof=todo in_progress done"`
	Priority      string  `json:"priority" validate:"required,oneof=low medium high"`
	Deadline      *string `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PortalVisible *bool   `json:"portal_visible,omitempty"`
}

// UpdateTaskRequest is the payload for modifying a task.
type UpdateTaskRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	ClientID      *string `json:"client_id,omitempty"`
	AssigneeID    *string `json:"assignee_id,omitempty"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress done"`
	Priority      *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Deadline      *string `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PortalVisible *bool   `json:"portal_visible,omitempty"`
}
