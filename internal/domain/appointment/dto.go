// internal/domain/appointment/dto.go
package appointment

import "time"

type CreateAppointmentRequest struct {
	ContactID   string    `json:"contact_id" binding:"required"`
	Title       string    `json:"title" binding:"required,max=255"`
	AgentName   string    `json:"agent_name" binding:"required,max=255"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Duration    int       `json:"duration"`
	Notes       string    `json:"notes"`
	UserID      string    `json:"user_id"`
}

type UpdateAppointmentRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	AgentName   *string    `json:"agent_name" binding:"omitempty,max=255"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Duration    *int       `json:"duration"`
	Status      *Status    `json:"status"`
	Notes       *string    `json:"notes"`
}

type AppointmentListFilters struct {
	From   time.Time `form:"from" time_format:"2006-01-02"`
	To     time.Time `form:"to" time_format:"2006-01-02"`
	Status Status    `form:"status"`
}
