// internal/service/appointment/appointment.go
package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"leadflow-service/internal/domain/appointment"
	xerrors "leadflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type AppointmentRepo interface {
	Create(ctx context.Context, a *appointment.Appointment) error
	FindByID(ctx context.Context, id string) (*appointment.Appointment, error)
	Update(ctx context.Context, id string, a *appointment.Appointment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *appointment.AppointmentListFilters) ([]appointment.Appointment, error)
}

type AppointmentService struct {
	appointmentRepo AppointmentRepo
	logger          *zap.Logger
}

func NewAppointmentService(appointmentRepo AppointmentRepo, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{appointmentRepo: appointmentRepo, logger: logger}
}

// CreateAppointment schedules an appointment against a contact.
func (s *AppointmentService) CreateAppointment(ctx context.Context, req *appointment.CreateAppointmentRequest) (*appointment.Appointment, error) {
	a := &appointment.Appointment{
		ContactID:   req.ContactID,
		UserID:      sql.NullString{String: req.UserID, Valid: req.UserID != ""},
		Title:       req.Title,
		AgentName:   req.AgentName,
		ScheduledAt: req.ScheduledAt.UTC(),
		Duration:    req.Duration,
		Notes:       sql.NullString{String: req.Notes, Valid: req.Notes != ""},
	}

	if err := s.appointmentRepo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create appointment", zap.Error(err))
		return nil, err
	}

	s.logger.Info("appointment created",
		zap.String("appointment_id", a.ID), zap.String("contact_id", a.ContactID))
	return a, nil
}

// UpdateAppointment rewrites provided fields.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id string, req *appointment.UpdateAppointmentRequest) (*appointment.Appointment, error) {
	a, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.AgentName != nil {
		a.AgentName = *req.AgentName
	}
	if req.ScheduledAt != nil {
		a.ScheduledAt = req.ScheduledAt.UTC()
	}
	if req.Duration != nil {
		a.Duration = *req.Duration
	}
	if req.Status != nil {
		switch *req.Status {
		case appointment.StatusScheduled, appointment.StatusDone, appointment.StatusCanceled:
			a.Status = *req.Status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", xerrors.ErrInvalidInput, *req.Status)
		}
	}
	if req.Notes != nil {
		a.Notes = sql.NullString{String: *req.Notes, Valid: *req.Notes != ""}
	}

	if err := s.appointmentRepo.Update(ctx, id, a); err != nil {
		return nil, err
	}

	return s.appointmentRepo.FindByID(ctx, id)
}

// DeleteAppointment removes an appointment.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id string) error {
	return s.appointmentRepo.Delete(ctx, id)
}

// ListAppointments returns the agenda for a day range.
func (s *AppointmentService) ListAppointments(ctx context.Context, filters *appointment.AppointmentListFilters) ([]appointment.Appointment, error) {
	return s.appointmentRepo.List(ctx, filters)
}
