// internal/domain/conversation/entity.go
package conversation

import (
	"database/sql"
	"time"
)

// SenderType identifies who authored a message.
type SenderType string

const (
	SenderContact SenderType = "contact"
	SenderAgent   SenderType = "agent"
	SenderSystem  SenderType = "system"
)

func ValidSenderType(s SenderType) bool {
	switch s {
	case SenderContact, SenderAgent, SenderSystem:
		return true
	}
	return false
}

type Conversation struct {
	ID        string `json:"id" db:"id"`
	ContactID string `json:"contact_id" db:"contact_id"`

	// Maintained by explicit increment on append, not by a derived count.
	MessageCount int64 `json:"message_count" db:"message_count"`

	UserID    sql.NullString `json:"user_id,omitempty" db:"user_id"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

type Message struct {
	ID             string                 `json:"id" db:"id"`
	ConversationID string                 `json:"conversation_id" db:"conversation_id"`
	Content        string                 `json:"content" db:"content"`
	SenderType     SenderType             `json:"sender_type" db:"sender_type"`
	SenderName     sql.NullString         `json:"sender_name,omitempty" db:"sender_name"`
	Read           bool                   `json:"read" db:"read"`
	Metadata       map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt      time.Time              `json:"created_at" db:"created_at"`
}
