// internal/service/ingest/service.go
package ingest

import (
	"context"
	"fmt"
	"time"

	"leadflow-service/internal/domain/conversation"
	"leadflow-service/internal/domain/webhook"
	"leadflow-service/internal/realtime"

	"go.uber.org/zap"
)

// ErrMissingFields rejects payloads without the required inbound identity or
// content, before any store access.
var ErrMissingFields = fmt.Errorf("missing required fields: from and message")

// Result is what a processed inbound delivery hands back to the provider.
type Result struct {
	ContactID      string
	ConversationID string
}

// Service runs the inbound pipeline: resolve contact and conversation, append
// the message, publish to the change feed. Auditing is driven by the HTTP
// handler since it wraps both the success and failure paths.
type Service struct {
	resolver  *Resolver
	appender  *Appender
	publisher Publisher
	logger    *zap.Logger
}

func NewService(resolver *Resolver, appender *Appender, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		resolver:  resolver,
		appender:  appender,
		publisher: publisher,
		logger:    logger,
	}
}

// Process handles one provider callback. Safe to repeat: the same phone
// resolves to the same contact and conversation on every invocation.
func (s *Service) Process(ctx context.Context, payload *webhook.InboundPayload) (*Result, error) {
	if payload.From == "" || payload.Message == "" {
		return nil, ErrMissingFields
	}

	res, err := s.resolver.Resolve(ctx, payload.From, payload.FromName)
	if err != nil {
		return nil, err
	}

	senderName := payload.FromName
	if senderName == "" {
		senderName = payload.From
	}

	ts := payload.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	messageID, err := s.appender.Append(ctx, AppendInput{
		ConversationID: res.ConversationID,
		ContactID:      res.Contact.ID,
		Content:        payload.Message,
		SenderType:     conversation.SenderContact,
		SenderName:     senderName,
		Metadata: map[string]interface{}{
			"timestamp": ts,
			"source":    "whatsapp",
		},
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(realtime.ChannelMessages, realtime.EventTypeMessageCreated, map[string]interface{}{
			"message_id":      messageID,
			"conversation_id": res.ConversationID,
			"contact_id":      res.Contact.ID,
		})
		s.publisher.Publish(realtime.ChannelConversations, realtime.EventTypeConversationUpdated, map[string]interface{}{
			"conversation_id": res.ConversationID,
		})
		if res.NewContact {
			s.publisher.Publish(realtime.ChannelContacts, realtime.EventTypeContactUpdated, map[string]interface{}{
				"contact_id": res.Contact.ID,
			})
		}
	}

	s.logger.Info("inbound message processed",
		zap.String("contact_id", res.Contact.ID),
		zap.String("conversation_id", res.ConversationID),
		zap.Bool("new_contact", res.NewContact),
		zap.Bool("new_conversation", res.NewConversation),
	)

	return &Result{
		ContactID:      res.Contact.ID,
		ConversationID: res.ConversationID,
	}, nil
}
