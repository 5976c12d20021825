// internal/service/conversation/conversation.go
package conversation

import (
	"context"
	"fmt"

	"leadflow-service/internal/domain/conversation"
	"leadflow-service/internal/realtime"
	"leadflow-service/internal/service/ingest"

	"go.uber.org/zap"
)

type ConversationRepo interface {
	FindByID(ctx context.Context, id string) (*conversation.Conversation, error)
	ListSummaries(ctx context.Context, filters *conversation.ConversationListFilters) ([]conversation.ConversationSummary, error)
}

type MessageRepo interface {
	ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]conversation.Message, error)
	MarkConversationRead(ctx context.Context, conversationID string) error
}

type TemplateRepo interface {
	IncrementUsage(ctx context.Context, id string) error
}

type Publisher interface {
	Publish(channel realtime.ChannelType, eventType realtime.EventType, data interface{})
}

// ConversationService backs the inbox: listing threads, reading messages,
// and sending agent replies. Replies reuse the ingestion appender so counter
// and freshness semantics stay in one place.
type ConversationService struct {
	conversationRepo ConversationRepo
	messageRepo      MessageRepo
	templateRepo     TemplateRepo
	appender         *ingest.Appender
	publisher        Publisher
	logger           *zap.Logger
}

func NewConversationService(
	conversationRepo ConversationRepo,
	messageRepo MessageRepo,
	templateRepo TemplateRepo,
	appender *ingest.Appender,
	publisher Publisher,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		templateRepo:     templateRepo,
		appender:         appender,
		publisher:        publisher,
		logger:           logger,
	}
}

// ListConversations returns inbox rows ordered by freshness.
func (s *ConversationService) ListConversations(ctx context.Context, filters *conversation.ConversationListFilters) ([]conversation.ConversationSummary, error) {
	return s.conversationRepo.ListSummaries(ctx, filters)
}

// ListMessages returns a conversation's messages in chronological order.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID string, filters *conversation.MessageListFilters) ([]conversation.Message, error) {
	if _, err := s.conversationRepo.FindByID(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByConversation(ctx, conversationID, filters.Limit, filters.Offset)
}

// SendMessage appends an agent-authored message. When the reply came from a
// template its usage counter is bumped, best-effort.
func (s *ConversationService) SendMessage(ctx context.Context, conversationID string, req *conversation.SendMessageRequest) (string, error) {
	cv, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		return "", err
	}

	messageID, err := s.appender.Append(ctx, ingest.AppendInput{
		ConversationID: cv.ID,
		Content:        req.Content,
		SenderType:     conversation.SenderAgent,
		SenderName:     req.SenderName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	if req.TemplateID != "" {
		if err := s.templateRepo.IncrementUsage(ctx, req.TemplateID); err != nil {
			s.logger.Warn("failed to bump template usage",
				zap.String("template_id", req.TemplateID), zap.Error(err))
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(realtime.ChannelMessages, realtime.EventTypeMessageCreated, map[string]interface{}{
			"message_id":      messageID,
			"conversation_id": cv.ID,
		})
	}

	return messageID, nil
}

// MarkRead flags all inbound messages of a conversation as read.
func (s *ConversationService) MarkRead(ctx context.Context, conversationID string) error {
	if _, err := s.conversationRepo.FindByID(ctx, conversationID); err != nil {
		return err
	}

	if err := s.messageRepo.MarkConversationRead(ctx, conversationID); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(realtime.ChannelConversations, realtime.EventTypeConversationUpdated,
			map[string]interface{}{"conversation_id": conversationID})
	}

	return nil
}
