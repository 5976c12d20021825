// internal/repository/postgres/webhook_config_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow-service/internal/domain/webhook"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type WebhookConfigRepository struct {
	db *pgxpool.Pool
}

func NewWebhookConfigRepository(db *pgxpool.Pool) *WebhookConfigRepository {
	return &WebhookConfigRepository{db: db}
}

const webhookConfigColumns = `
	id, user_id, provider, webhook_url, webhook_token, verify_token,
	is_active, last_sync, sync_status, error_message, created_at, updated_at
`

func scanWebhookConfig(row pgx.Row) (*webhook.Config, error) {
	var cfg webhook.Config
	err := row.Scan(
		&cfg.ID, &cfg.UserID, &cfg.Provider, &cfg.WebhookURL, &cfg.WebhookToken, &cfg.VerifyToken,
		&cfg.IsActive, &cfg.LastSync, &cfg.SyncStatus, &cfg.ErrorMessage, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan webhook config: %w", err)
	}
	return &cfg, nil
}

// Create inserts a new webhook configuration with sync_status = pending.
func (r *WebhookConfigRepository) Create(ctx context.Context, cfg *webhook.Config) error {
	query := `
		INSERT INTO webhook_configs (
			id, user_id, provider, webhook_url, webhook_token, verify_token,
			is_active, sync_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now().UTC()
	cfg.ID = ulid.Make().String()
	cfg.SyncStatus = webhook.SyncPending
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	_, err := r.db.Exec(
		ctx, query,
		cfg.ID, cfg.UserID, cfg.Provider, cfg.WebhookURL, cfg.WebhookToken, cfg.VerifyToken,
		cfg.IsActive, cfg.SyncStatus, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook config: %w", err)
	}

	return nil
}

// Update rewrites the operator-editable fields of a configuration.
func (r *WebhookConfigRepository) Update(ctx context.Context, id string, cfg *webhook.Config) error {
	query := `
		UPDATE webhook_configs
		SET webhook_url = $1, webhook_token = $2, verify_token = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(
		ctx, query,
		cfg.WebhookURL, cfg.WebhookToken, cfg.VerifyToken, cfg.IsActive, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update webhook config: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// FindByProvider returns the configuration row for a provider regardless of
// active state, for the settings screen.
func (r *WebhookConfigRepository) FindByProvider(ctx context.Context, provider string) (*webhook.Config, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM webhook_configs
		WHERE provider = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`, webhookConfigColumns)

	return scanWebhookConfig(r.db.QueryRow(ctx, query, provider))
}

// FindActiveByProvider returns the active configuration the auditor records
// against. When several rows are active the most recently updated one wins;
// the selection rule is explicit rather than first-row-returned order.
func (r *WebhookConfigRepository) FindActiveByProvider(ctx context.Context, provider string) (*webhook.Config, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM webhook_configs
		WHERE provider = $1 AND is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1
	`, webhookConfigColumns)

	return scanWebhookConfig(r.db.QueryRow(ctx, query, provider))
}

// MarkSyncSuccess records a healthy delivery on the configuration.
func (r *WebhookConfigRepository) MarkSyncSuccess(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE webhook_configs
		SET last_sync = $1, sync_status = 'success', error_message = NULL, updated_at = $1
		WHERE id = $2
	`

	if _, err := r.db.Exec(ctx, query, at.UTC(), id); err != nil {
		return fmt.Errorf("failed to mark sync success: %w", err)
	}
	return nil
}

// MarkSyncError records a failed delivery on the configuration.
func (r *WebhookConfigRepository) MarkSyncError(ctx context.Context, id string, errMsg string) error {
	query := `
		UPDATE webhook_configs
		SET sync_status = 'error', error_message = $1, updated_at = $2
		WHERE id = $3
	`

	if _, err := r.db.Exec(ctx, query, errMsg, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to mark sync error: %w", err)
	}
	return nil
}
