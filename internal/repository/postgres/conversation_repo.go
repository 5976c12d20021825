// internal/repository/postgres/conversation_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow-service/internal/domain/conversation"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type ConversationRepository struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts a new conversation with message_count = 0.
func (r *ConversationRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	query := `
		INSERT INTO conversations (id, contact_id, message_count, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	c.ID = ulid.Make().String()
	c.MessageCount = 0
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.Exec(ctx, query, c.ID, c.ContactID, c.MessageCount, c.UserID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

// FindByID retrieves a conversation by ID.
func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	query := `
		SELECT id, contact_id, message_count, user_id, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	var c conversation.Conversation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ContactID, &c.MessageCount, &c.UserID, &c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}

	return &c, nil
}

// FindByContact retrieves the conversation owned by a contact. Exactly one
// conversation per contact is the steady state; the oldest wins if that
// invariant was ever broken.
func (r *ConversationRepository) FindByContact(ctx context.Context, contactID string) (*conversation.Conversation, error) {
	query := `
		SELECT id, contact_id, message_count, user_id, created_at, updated_at
		FROM conversations
		WHERE contact_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	var c conversation.Conversation
	err := r.db.QueryRow(ctx, query, contactID).Scan(
		&c.ID, &c.ContactID, &c.MessageCount, &c.UserID, &c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation by contact: %w", err)
	}

	return &c, nil
}

// IncrementMessageCount bumps the counter atomically in the store, so
// concurrent appends cannot under-count via stale read-modify-write cycles.
func (r *ConversationRepository) IncrementMessageCount(ctx context.Context, id string) error {
	query := `
		UPDATE conversations
		SET message_count = message_count + 1, updated_at = $1
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to increment message count: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// DeleteByContact removes all conversations owned by a contact. Messages
// must already be deleted.
func (r *ConversationRepository) DeleteByContact(ctx context.Context, contactID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM conversations WHERE contact_id = $1`, contactID); err != nil {
		return fmt.Errorf("failed to delete conversations: %w", err)
	}
	return nil
}

// ListSummaries returns inbox rows ordered by freshness, joined with contact
// identity, last message preview and unread count.
func (r *ConversationRepository) ListSummaries(ctx context.Context, filters *conversation.ConversationListFilters) ([]conversation.ConversationSummary, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filters.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("cv.user_id = $%d", argPos))
		args = append(args, filters.UserID)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(ct.name ILIKE $%d OR ct.phone ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 50
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`
		SELECT cv.id, cv.contact_id, cv.message_count, cv.user_id, cv.created_at, cv.updated_at,
		       ct.name, ct.phone,
		       COALESCE(lm.content, ''), COALESCE(lm.created_at, cv.updated_at),
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.conversation_id = cv.id AND m.read = FALSE AND m.sender_type = 'contact')
		FROM conversations cv
		JOIN contacts ct ON ct.id = cv.contact_id
		LEFT JOIN LATERAL (
			SELECT content, created_at FROM messages
			WHERE conversation_id = cv.id
			ORDER BY created_at DESC
			LIMIT 1
		) lm ON TRUE
		WHERE %s
		ORDER BY cv.updated_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conditions, " AND "), argPos, argPos+1)

	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	summaries := []conversation.ConversationSummary{}
	for rows.Next() {
		var s conversation.ConversationSummary
		err := rows.Scan(
			&s.ID, &s.ContactID, &s.MessageCount, &s.UserID, &s.CreatedAt, &s.UpdatedAt,
			&s.ContactName, &s.ContactPhone,
			&s.LastMessage, &s.LastSentAt,
			&s.UnreadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

// Count returns the total number of conversations.
func (r *ConversationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return total, nil
}
