// internal/realtime/event.go
package realtime

import "time"

// EventType represents different real-time change feed events
type EventType string

const (
	// Connection events
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"
	EventTypeConnected EventType = "connected"
	EventTypeError     EventType = "error"

	// Row change events (server -> client)
	EventTypeMessageCreated      EventType = "message:created"
	EventTypeContactUpdated      EventType = "contact:updated"
	EventTypeConversationUpdated EventType = "conversation:updated"

	// Subscription events (client -> server)
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// ChannelType groups events a client can subscribe to.
type ChannelType string

const (
	ChannelMessages      ChannelType = "messages"
	ChannelContacts      ChannelType = "contacts"
	ChannelConversations ChannelType = "conversations"
)

// Event is the universal wire format for the change feed.
type Event struct {
	Type      EventType   `json:"type"`
	Channel   ChannelType `json:"channel,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
