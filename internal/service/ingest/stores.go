// internal/service/ingest/stores.go
package ingest

import (
	"context"
	"time"

	"leadflow-service/internal/domain/contact"
	"leadflow-service/internal/domain/conversation"
	"leadflow-service/internal/domain/webhook"
	"leadflow-service/internal/realtime"
)

// The ingestion pipeline talks to the row store through these narrow
// interfaces; the postgres repositories satisfy them.

type ContactStore interface {
	FindByPhone(ctx context.Context, phone string) (*contact.Contact, error)
	Create(ctx context.Context, c *contact.Contact) error
	TouchLastContact(ctx context.Context, id string) error
}

type ConversationStore interface {
	FindByContact(ctx context.Context, contactID string) (*conversation.Conversation, error)
	Create(ctx context.Context, c *conversation.Conversation) error
	IncrementMessageCount(ctx context.Context, id string) error
}

type MessageStore interface {
	Create(ctx context.Context, m *conversation.Message) error
}

type ConfigStore interface {
	FindActiveByProvider(ctx context.Context, provider string) (*webhook.Config, error)
	MarkSyncSuccess(ctx context.Context, id string, at time.Time) error
	MarkSyncError(ctx context.Context, id string, errMsg string) error
}

type LogStore interface {
	Create(ctx context.Context, l *webhook.Log) error
}

// Publisher is the realtime change feed. Publishing must never block or fail
// the ingestion path; the hub guarantees that.
type Publisher interface {
	Publish(channel realtime.ChannelType, eventType realtime.EventType, data interface{})
}
