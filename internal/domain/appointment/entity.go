// internal/domain/appointment/entity.go
package appointment

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusDone      Status = "done"
	StatusCanceled  Status = "canceled"
)

type Appointment struct {
	ID          string         `json:"id" db:"id"`
	ContactID   string         `json:"contact_id" db:"contact_id"`
	UserID      sql.NullString `json:"user_id,omitempty" db:"user_id"`
	Title       string         `json:"title" db:"title"`
	AgentName   string         `json:"agent_name" db:"agent_name"`
	ScheduledAt time.Time      `json:"scheduled_at" db:"scheduled_at"`
	Duration    int            `json:"duration" db:"duration"` // minutes
	Status      Status         `json:"status" db:"status"`
	Notes       sql.NullString `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
