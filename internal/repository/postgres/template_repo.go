// internal/repository/postgres/template_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadflow-service/internal/domain/template"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type TemplateRepository struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts a new message template with usage_count = 0.
func (r *TemplateRepository) Create(ctx context.Context, t *template.MessageTemplate) error {
	query := `
		INSERT INTO message_templates (
			id, user_id, name, content, category, is_active, usage_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
	`

	now := time.Now().UTC()
	t.ID = ulid.Make().String()
	t.UsageCount = 0
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.Exec(
		ctx, query,
		t.ID, t.UserID, t.Name, t.Content, t.Category, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// FindByID retrieves a template by ID.
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*template.MessageTemplate, error) {
	query := `
		SELECT id, user_id, name, content, category, is_active, usage_count, created_at, updated_at
		FROM message_templates
		WHERE id = $1
	`

	var t template.MessageTemplate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Name, &t.Content, &t.Category, &t.IsActive, &t.UsageCount, &t.CreatedAt, &t.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find template: %w", err)
	}

	return &t, nil
}

// List returns templates, newest first.
func (r *TemplateRepository) List(ctx context.Context, onlyActive bool) ([]template.MessageTemplate, error) {
	query := `
		SELECT id, user_id, name, content, category, is_active, usage_count, created_at, updated_at
		FROM message_templates
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []template.MessageTemplate{}
	for rows.Next() {
		var t template.MessageTemplate
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Name, &t.Content, &t.Category, &t.IsActive, &t.UsageCount, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, nil
}

// Update rewrites the editable fields of a template.
func (r *TemplateRepository) Update(ctx context.Context, id string, t *template.MessageTemplate) error {
	query := `
		UPDATE message_templates
		SET name = $1, content = $2, category = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query, t.Name, t.Content, t.Category, t.IsActive, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a template.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM message_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// IncrementUsage bumps usage_count atomically when a template is sent.
func (r *TemplateRepository) IncrementUsage(ctx context.Context, id string) error {
	query := `
		UPDATE message_templates
		SET usage_count = usage_count + 1, updated_at = $1
		WHERE id = $2
	`

	if _, err := r.db.Exec(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to increment template usage: %w", err)
	}
	return nil
}
