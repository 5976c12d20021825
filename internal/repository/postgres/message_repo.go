// internal/repository/postgres/message_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leadflow-service/internal/domain/conversation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message. Messages are immutable after insert except for
// the read flag.
func (r *MessageRepository) Create(ctx context.Context, m *conversation.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, content, sender_type, sender_name, read, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var metadataJSON []byte
	var err error

	if m.Metadata != nil {
		metadataJSON, err = json.Marshal(m.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	m.ID = ulid.Make().String()
	m.CreatedAt = time.Now().UTC()

	_, err = r.db.Exec(
		ctx, query,
		m.ID, m.ConversationID, m.Content, m.SenderType, m.SenderName, m.Read, metadataJSON, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// ListByConversation returns messages in chronological order.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]conversation.Message, error) {
	if limit < 1 {
		limit = 100
	}

	query := `
		SELECT id, conversation_id, content, sender_type, sender_name, read, metadata, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []conversation.Message{}
	for rows.Next() {
		var m conversation.Message
		var metadataJSON []byte

		err := rows.Scan(
			&m.ID, &m.ConversationID, &m.Content, &m.SenderType, &m.SenderName, &m.Read, &metadataJSON, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &m.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}

		messages = append(messages, m)
	}

	return messages, nil
}

// MarkConversationRead flags all inbound messages of a conversation as read.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, conversationID string) error {
	query := `
		UPDATE messages SET read = TRUE
		WHERE conversation_id = $1 AND sender_type = 'contact' AND read = FALSE
	`

	if _, err := r.db.Exec(ctx, query, conversationID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// DeleteByContact removes every message under the contact's conversations.
// Runs first in the cascade so conversations can be deleted afterwards.
func (r *MessageRepository) DeleteByContact(ctx context.Context, contactID string) error {
	query := `
		DELETE FROM messages
		WHERE conversation_id IN (SELECT id FROM conversations WHERE contact_id = $1)
	`

	if _, err := r.db.Exec(ctx, query, contactID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}

// CountSince counts messages created at or after the given instant.
func (r *MessageRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE created_at >= $1`, since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return total, nil
}

// CountUnread counts inbound messages not yet read by an agent.
func (r *MessageRepository) CountUnread(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM messages WHERE read = FALSE AND sender_type = 'contact'`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return total, nil
}
