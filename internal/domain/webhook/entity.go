// internal/domain/webhook/entity.go
package webhook

import (
	"database/sql"
	"time"
)

// SyncStatus tracks the health of a webhook configuration.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// EventType classifies audit log entries.
type EventType string

const (
	EventMessageReceived EventType = "message_received"
	EventStatusUpdate    EventType = "status_update"
	EventError           EventType = "error"
)

type Config struct {
	ID           string         `json:"id" db:"id"`
	UserID       sql.NullString `json:"user_id,omitempty" db:"user_id"`
	Provider     string         `json:"provider" db:"provider"`
	WebhookURL   string         `json:"webhook_url" db:"webhook_url"`
	WebhookToken sql.NullString `json:"webhook_token,omitempty" db:"webhook_token"`
	VerifyToken  sql.NullString `json:"verify_token,omitempty" db:"verify_token"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	LastSync     sql.NullTime   `json:"last_sync,omitempty" db:"last_sync"`
	SyncStatus   SyncStatus     `json:"sync_status" db:"sync_status"`
	ErrorMessage sql.NullString `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Log is an append-only audit record for one webhook delivery.
type Log struct {
	ID              string                 `json:"id" db:"id"`
	WebhookConfigID string                 `json:"webhook_config_id" db:"webhook_config_id"`
	EventType       EventType              `json:"event_type" db:"event_type"`
	Payload         map[string]interface{} `json:"payload,omitempty" db:"payload"`
	StatusCode      sql.NullInt32          `json:"status_code,omitempty" db:"status_code"`
	ResponseTimeMs  sql.NullInt64          `json:"response_time_ms,omitempty" db:"response_time_ms"`
	ErrorMessage    sql.NullString         `json:"error_message,omitempty" db:"error_message"`
	CreatedAt       time.Time              `json:"created_at" db:"created_at"`
}
