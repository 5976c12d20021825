// internal/domain/contact/entity.go
package contact

import (
	"database/sql"
	"time"
)

// Stage is a contact's position in the sales funnel.
type Stage string

const (
	StageLead        Stage = "lead"
	StageQualified   Stage = "qualified"
	StageNegotiation Stage = "negotiation"
	StageClient      Stage = "client"
	StageInactive    Stage = "inactive"
)

// ValidStage reports whether s is one of the known funnel stages.
func ValidStage(s Stage) bool {
	switch s {
	case StageLead, StageQualified, StageNegotiation, StageClient, StageInactive:
		return true
	}
	return false
}

type Contact struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Phone string `json:"phone" db:"phone"`
	Stage Stage  `json:"stage" db:"stage"`

	// Optional owning user; unassigned contacts are picked up by an admin later.
	UserID sql.NullString `json:"user_id,omitempty" db:"user_id"`

	LastContact time.Time `json:"last_contact" db:"last_contact"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type StageCount struct {
	Stage Stage `json:"stage"`
	Count int64 `json:"count"`
}
