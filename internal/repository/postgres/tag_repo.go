// internal/repository/postgres/tag_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"leadflow-service/internal/domain/tag"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type TagRepository struct {
	db *pgxpool.Pool
}

func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag.
func (r *TagRepository) Create(ctx context.Context, t *tag.Tag) error {
	query := `INSERT INTO tags (id, name, color, created_at) VALUES ($1, $2, $3, $4)`

	t.ID = ulid.Make().String()
	t.CreatedAt = time.Now().UTC()
	if t.Color == "" {
		t.Color = "#808080"
	}

	if _, err := r.db.Exec(ctx, query, t.ID, t.Name, t.Color, t.CreatedAt); err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// List returns all tags.
func (r *TagRepository) List(ctx context.Context) ([]tag.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, color, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []tag.Tag{}
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}

	return tags, nil
}

// Delete removes a tag and its contact links.
func (r *TagRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM contact_tags WHERE tag_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete tag links: %w", err)
	}

	result, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Assign links a tag to a contact. Re-assigning an existing link is a no-op.
func (r *TagRepository) Assign(ctx context.Context, contactID, tagID string) error {
	query := `
		INSERT INTO contact_tags (id, contact_id, tag_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (contact_id, tag_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, ulid.Make().String(), contactID, tagID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to assign tag: %w", err)
	}
	return nil
}

// Unassign removes one tag link from a contact.
func (r *TagRepository) Unassign(ctx context.Context, contactID, tagID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM contact_tags WHERE contact_id = $1 AND tag_id = $2`, contactID, tagID)
	if err != nil {
		return fmt.Errorf("failed to unassign tag: %w", err)
	}
	return nil
}

// RemoveAllFromContact drops every tag link of a contact. Part of the
// contact deletion cascade.
func (r *TagRepository) RemoveAllFromContact(ctx context.Context, contactID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM contact_tags WHERE contact_id = $1`, contactID); err != nil {
		return fmt.Errorf("failed to remove contact tags: %w", err)
	}
	return nil
}

// ListByContact returns the tags linked to a contact.
func (r *TagRepository) ListByContact(ctx context.Context, contactID string) ([]tag.Tag, error) {
	query := `
		SELECT t.id, t.name, t.color, t.created_at
		FROM tags t
		JOIN contact_tags ct ON ct.tag_id = t.id
		WHERE ct.contact_id = $1
		ORDER BY t.name
	`

	rows, err := r.db.Query(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact tags: %w", err)
	}
	defer rows.Close()

	tags := []tag.Tag{}
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}

	return tags, nil
}
