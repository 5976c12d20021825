// internal/domain/webhook/dto.go
package webhook

// InboundPayload is the provider callback body for an incoming message.
// From and Message are required; the rest is optional.
type InboundPayload struct {
	From      string `json:"from"`
	FromName  string `json:"fromName"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Test      bool   `json:"test,omitempty"`
}

// InboundResponse is the exact success body the provider expects.
type InboundResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ContactID      string `json:"contact_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

type SaveConfigRequest struct {
	WebhookURL   string `json:"webhook_url" binding:"required,url"`
	WebhookToken string `json:"webhook_token"`
	VerifyToken  string `json:"verify_token"`
	IsActive     bool   `json:"is_active"`
	UserID       string `json:"user_id"`
}

type TestConnectionRequest struct {
	WebhookURL string `json:"webhook_url"`
}

// TestResult is what the connection probe reports back to the operator.
// A failed probe is still an HTTP 200; failure lives in the body.
type TestResult struct {
	Success        bool   `json:"success"`
	StatusCode     int    `json:"status_code,omitempty"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Message        string `json:"message"`
}

type LogListFilters struct {
	EventType EventType `form:"event_type"`
	Limit     int       `form:"limit"`
}
