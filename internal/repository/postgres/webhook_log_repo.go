// internal/repository/postgres/webhook_log_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leadflow-service/internal/domain/webhook"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type WebhookLogRepository struct {
	db *pgxpool.Pool
}

func NewWebhookLogRepository(db *pgxpool.Pool) *WebhookLogRepository {
	return &WebhookLogRepository{db: db}
}

// Create appends an audit record. Logs are append-only.
func (r *WebhookLogRepository) Create(ctx context.Context, l *webhook.Log) error {
	query := `
		INSERT INTO webhook_logs (
			id, webhook_config_id, event_type, payload, status_code,
			response_time_ms, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var payloadJSON []byte
	var err error

	if l.Payload != nil {
		payloadJSON, err = json.Marshal(l.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
	}

	l.ID = ulid.Make().String()
	l.CreatedAt = time.Now().UTC()

	_, err = r.db.Exec(
		ctx, query,
		l.ID, l.WebhookConfigID, l.EventType, payloadJSON, l.StatusCode,
		l.ResponseTimeMs, l.ErrorMessage, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook log: %w", err)
	}

	return nil
}

// ListRecent returns the newest log entries for a configuration, bounded.
func (r *WebhookLogRepository) ListRecent(ctx context.Context, configID string, filters *webhook.LogListFilters) ([]webhook.Log, error) {
	limit := filters.Limit
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, webhook_config_id, event_type, payload, status_code,
		       response_time_ms, error_message, created_at
		FROM webhook_logs
		WHERE webhook_config_id = $1 AND ($2 = '' OR event_type = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, configID, string(filters.EventType), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook logs: %w", err)
	}
	defer rows.Close()

	logs := []webhook.Log{}
	for rows.Next() {
		var l webhook.Log
		var payloadJSON []byte

		err := rows.Scan(
			&l.ID, &l.WebhookConfigID, &l.EventType, &payloadJSON, &l.StatusCode,
			&l.ResponseTimeMs, &l.ErrorMessage, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook log: %w", err)
		}

		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &l.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		logs = append(logs, l)
	}

	return logs, nil
}
