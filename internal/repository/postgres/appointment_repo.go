// internal/repository/postgres/appointment_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow-service/internal/domain/appointment"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type AppointmentRepository struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserts a new appointment with status scheduled.
func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, contact_id, user_id, title, agent_name, scheduled_at,
			duration, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	now := time.Now().UTC()
	a.ID = ulid.Make().String()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = appointment.StatusScheduled
	}
	if a.Duration <= 0 {
		a.Duration = 30
	}

	_, err := r.db.Exec(
		ctx, query,
		a.ID, a.ContactID, a.UserID, a.Title, a.AgentName, a.ScheduledAt,
		a.Duration, a.Status, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

// FindByID retrieves an appointment by ID.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	query := `
		SELECT id, contact_id, user_id, title, agent_name, scheduled_at,
		       duration, status, notes, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`

	var a appointment.Appointment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.ContactID, &a.UserID, &a.Title, &a.AgentName, &a.ScheduledAt,
		&a.Duration, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}

	return &a, nil
}

// Update rewrites an appointment's mutable fields.
func (r *AppointmentRepository) Update(ctx context.Context, id string, a *appointment.Appointment) error {
	query := `
		UPDATE appointments
		SET title = $1, agent_name = $2, scheduled_at = $3, duration = $4,
		    status = $5, notes = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(
		ctx, query,
		a.Title, a.AgentName, a.ScheduledAt, a.Duration,
		a.Status, a.Notes, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes an appointment.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List returns appointments inside an optional day range for the agenda.
func (r *AppointmentRepository) List(ctx context.Context, filters *appointment.AppointmentListFilters) ([]appointment.Appointment, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if !filters.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("scheduled_at >= $%d", argPos))
		args = append(args, filters.From)
		argPos++
	}
	if !filters.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("scheduled_at < $%d", argPos))
		args = append(args, filters.To)
		argPos++
	}
	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filters.Status)
		argPos++
	}

	query := fmt.Sprintf(`
		SELECT id, contact_id, user_id, title, agent_name, scheduled_at,
		       duration, status, notes, created_at, updated_at
		FROM appointments
		WHERE %s
		ORDER BY scheduled_at ASC
	`, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	appointments := []appointment.Appointment{}
	for rows.Next() {
		var a appointment.Appointment
		err := rows.Scan(
			&a.ID, &a.ContactID, &a.UserID, &a.Title, &a.AgentName, &a.ScheduledAt,
			&a.Duration, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}

	return appointments, nil
}

// CountInRange counts appointments scheduled inside [from, to).
func (r *AppointmentRepository) CountInRange(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM appointments WHERE scheduled_at >= $1 AND scheduled_at < $2`,
		from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return total, nil
}

// DeleteByContact removes a contact's appointments as part of the deletion
// cascade.
func (r *AppointmentRepository) DeleteByContact(ctx context.Context, contactID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE contact_id = $1`, contactID); err != nil {
		return fmt.Errorf("failed to delete appointments: %w", err)
	}
	return nil
}
