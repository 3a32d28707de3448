package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ApplicationID uuid.UUID `json:"application_id" db:"application_id"`
	TenantID      string    `json:"tenant_id" db:"tenant_id"`
	Type          Type      `json:"type" db:"type"`
	Status        Status    `json:"status" db:"status"`
	DueAt         time.Time `json:"due_at" db:"due_at"`
	Title         string    `json:"title,omitempty" db:"title"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type Type string
type Status string

const TypeCall Type = "call"
const TypeEmail Type = "email"
const TypeReview Type = "review"

const StatusOpen Status = "open"
const StatusCompleted Status = "completed"

// ParseType принимает только значения из фиксированного перечисления
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeCall, TypeEmail, TypeReview:
		return Type(s), true
	}
	return "", false
}

// всё, что не completed, показывается как открытая задача
func (s Status) IsOpen() bool {
	return s != StatusCompleted
}
