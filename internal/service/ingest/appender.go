// internal/service/ingest/appender.go
package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"leadflow-service/internal/domain/conversation"

	"go.uber.org/zap"
)

// AppendInput describes one message to persist under a resolved conversation.
type AppendInput struct {
	ConversationID string
	ContactID      string
	Content        string
	SenderType     conversation.SenderType
	SenderName     string
	Metadata       map[string]interface{}
}

// Appender persists messages and keeps the conversation counter and contact
// freshness in step with them.
type Appender struct {
	messages      MessageStore
	conversations ConversationStore
	contacts      ContactStore
	logger        *zap.Logger
}

func NewAppender(messages MessageStore, conversations ConversationStore, contacts ContactStore, logger *zap.Logger) *Appender {
	return &Appender{
		messages:      messages,
		conversations: conversations,
		contacts:      contacts,
		logger:        logger,
	}
}

// Append inserts the message, then bumps the conversation's counter and
// freshness. The two writes are sequential; the counter bump itself is an
// atomic store-side increment.
func (a *Appender) Append(ctx context.Context, in AppendInput) (string, error) {
	m := &conversation.Message{
		ConversationID: in.ConversationID,
		Content:        in.Content,
		SenderType:     in.SenderType,
		SenderName:     sql.NullString{String: in.SenderName, Valid: in.SenderName != ""},
		Read:           in.SenderType != conversation.SenderContact,
		Metadata:       in.Metadata,
	}

	if err := a.messages.Create(ctx, m); err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}

	if err := a.conversations.IncrementMessageCount(ctx, in.ConversationID); err != nil {
		// The message row exists but the counter does not reflect it yet; a
		// recount reconciles it. Still surfaced so the provider retries.
		return "", fmt.Errorf("failed to bump conversation counter: %w", err)
	}

	if in.SenderType == conversation.SenderContact && in.ContactID != "" {
		if err := a.contacts.TouchLastContact(ctx, in.ContactID); err != nil {
			return "", fmt.Errorf("failed to touch contact: %w", err)
		}
	}

	a.logger.Debug("message appended",
		zap.String("message_id", m.ID),
		zap.String("conversation_id", in.ConversationID),
		zap.String("sender_type", string(in.SenderType)),
	)

	return m.ID, nil
}
