// internal/domain/metrics/entity.go
package metrics

import "leadflow-service/internal/domain/contact"

// DashboardStats is the aggregate snapshot behind the dashboard and
// metrics pages.
type DashboardStats struct {
	TotalContacts       int64                `json:"total_contacts"`
	ContactsByStage     []contact.StageCount `json:"contacts_by_stage"`
	ActiveConversations int64                `json:"active_conversations"`
	MessagesToday       int64                `json:"messages_today"`
	UnreadMessages      int64                `json:"unread_messages"`
	AppointmentsToday   int64                `json:"appointments_today"`
}
