// internal/repository/postgres/contact_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow-service/internal/domain/contact"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new contact. The ID and timestamps are generated here.
func (r *ContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	query := `
		INSERT INTO contacts (id, name, phone, stage, user_id, last_contact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now().UTC()
	c.ID = ulid.Make().String()
	c.LastContact = now
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Stage == "" {
		c.Stage = contact.StageLead
	}

	_, err := r.db.Exec(
		ctx, query,
		c.ID, c.Name, c.Phone, c.Stage, c.UserID, c.LastContact, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// FindByID retrieves a contact by ID.
func (r *ContactRepository) FindByID(ctx context.Context, id string) (*contact.Contact, error) {
	query := `
		SELECT id, name, phone, stage, user_id, last_contact, created_at, updated_at
		FROM contacts
		WHERE id = $1
	`

	var c contact.Contact
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Stage, &c.UserID, &c.LastContact, &c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	return &c, nil
}

// FindByPhone retrieves a contact by exact phone match. The phone column is
// not unique at the storage layer; when duplicates exist the oldest contact
// wins, so repeated inbound messages keep resolving to the same record.
func (r *ContactRepository) FindByPhone(ctx context.Context, phone string) (*contact.Contact, error) {
	query := `
		SELECT id, name, phone, stage, user_id, last_contact, created_at, updated_at
		FROM contacts
		WHERE phone = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	var c contact.Contact
	err := r.db.QueryRow(ctx, query, phone).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Stage, &c.UserID, &c.LastContact, &c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by phone: %w", err)
	}

	return &c, nil
}

// Update updates a contact's mutable fields.
func (r *ContactRepository) Update(ctx context.Context, id string, c *contact.Contact) error {
	query := `
		UPDATE contacts
		SET name = $1, phone = $2, stage = $3, user_id = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query, c.Name, c.Phone, c.Stage, c.UserID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStage moves a contact to another funnel stage (kanban drag).
func (r *ContactRepository) UpdateStage(ctx context.Context, id string, stage contact.Stage) error {
	query := `UPDATE contacts SET stage = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, stage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// TouchLastContact refreshes last_contact to now. Setting the same logical
// value twice in one request is harmless, so callers need not dedupe.
func (r *ContactRepository) TouchLastContact(ctx context.Context, id string) error {
	query := `UPDATE contacts SET last_contact = $1, updated_at = $1 WHERE id = $2`

	if _, err := r.db.Exec(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to touch last_contact: %w", err)
	}
	return nil
}

// Delete removes the contact row itself. Dependent rows must already be gone;
// the service layer runs the cascade in dependency order.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List retrieves contacts with their tag names for the kanban board.
func (r *ContactRepository) List(ctx context.Context, filters *contact.ContactListFilters) ([]contact.ContactWithTags, int64, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filters.Stage != "" {
		conditions = append(conditions, fmt.Sprintf("c.stage = $%d", argPos))
		args = append(args, filters.Stage)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR c.phone ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	if filters.TagID != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM contact_tags ct WHERE ct.contact_id = c.id AND ct.tag_id = $%d)", argPos))
		args = append(args, filters.TagID)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM contacts c WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 50
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`
		SELECT c.id, c.name, c.phone, c.stage, c.user_id, c.last_contact, c.created_at, c.updated_at,
		       COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.id IS NOT NULL), '{}') AS tags
		FROM contacts c
		LEFT JOIN contact_tags ct ON ct.contact_id = c.id
		LEFT JOIN tags t ON t.id = ct.tag_id
		WHERE %s
		GROUP BY c.id
		ORDER BY c.last_contact DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)

	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []contact.ContactWithTags{}
	for rows.Next() {
		var c contact.ContactWithTags
		var tags pq.StringArray

		err := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Stage, &c.UserID, &c.LastContact, &c.CreatedAt, &c.UpdatedAt,
			&tags,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}

		c.Tags = []string(tags)
		contacts = append(contacts, c)
	}

	return contacts, total, nil
}

// CountByStage returns funnel counts for the dashboard.
func (r *ContactRepository) CountByStage(ctx context.Context) ([]contact.StageCount, error) {
	query := `SELECT stage, COUNT(*) FROM contacts GROUP BY stage ORDER BY stage`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count by stage: %w", err)
	}
	defer rows.Close()

	counts := []contact.StageCount{}
	for rows.Next() {
		var sc contact.StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan stage count: %w", err)
		}
		counts = append(counts, sc)
	}

	return counts, nil
}

// Count returns the total number of contacts.
func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return total, nil
}
