// internal/handlers/appointment/appointment_handler.go
package appointment

import (
	"net/http"

	"leadflow-service/internal/domain/appointment"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/appointment"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	appointmentService *service.AppointmentService
}

func NewAppointmentHandler(appointmentService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
	}
}

// CreateAppointment schedules an appointment for a contact
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req appointment.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.appointmentService.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid appointment", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create appointment", err)
		return
	}

	response.Success(c, http.StatusCreated, "appointment created successfully", result)
}

// UpdateAppointment updates appointment fields
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id := c.Param("id")

	var req appointment.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.appointmentService.UpdateAppointment(c.Request.Context(), id, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "appointment not found")
			return
		}
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid appointment", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update appointment", err)
		return
	}

	response.Success(c, http.StatusOK, "appointment updated", result)
}

// DeleteAppointment cancels and removes an appointment
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id := c.Param("id")

	if err := h.appointmentService.DeleteAppointment(c.Request.Context(), id); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "appointment not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete appointment", err)
		return
	}

	response.Success(c, http.StatusOK, "appointment deleted", nil)
}

// ListAppointments retrieves appointments for the agenda view
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	var filters appointment.AppointmentListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.appointmentService.ListAppointments(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list appointments", err)
		return
	}

	response.Success(c, http.StatusOK, "appointments retrieved", result)
}
