// internal/domain/conversation/dto.go
package conversation

import "time"

type SendMessageRequest struct {
	Content    string `json:"content" binding:"required"`
	SenderName string `json:"sender_name"`
	TemplateID string `json:"template_id"`
}

type ConversationListFilters struct {
	UserID   string `form:"user_id"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ConversationSummary is the inbox row: conversation plus contact identity
// and the most recent message preview.
type ConversationSummary struct {
	Conversation
	ContactName  string    `json:"contact_name"`
	ContactPhone string    `json:"contact_phone"`
	LastMessage  string    `json:"last_message,omitempty"`
	LastSentAt   time.Time `json:"last_sent_at,omitempty"`
	UnreadCount  int64     `json:"unread_count"`
}

type MessageListFilters struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
