// internal/handlers/conversation/conversation_handler.go
package conversation

import (
	"net/http"

	"leadflow-service/internal/domain/conversation"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/conversation"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	conversationService *service.ConversationService
}

func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
	}
}

// ListConversations retrieves inbox rows with last message previews
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	var filters conversation.ConversationListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.conversationService.ListConversations(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list conversations", err)
		return
	}

	response.Success(c, http.StatusOK, "conversations retrieved", result)
}

// ListMessages retrieves the message history of a conversation
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	conversationID := c.Param("id")

	var filters conversation.MessageListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.conversationService.ListMessages(c.Request.Context(), conversationID, &filters)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "conversation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to list messages", err)
		return
	}

	response.Success(c, http.StatusOK, "messages retrieved", result)
}

// SendMessage appends an agent message to a conversation
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	conversationID := c.Param("id")

	var req conversation.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	messageID, err := h.conversationService.SendMessage(c.Request.Context(), conversationID, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "conversation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to send message", err)
		return
	}

	response.Success(c, http.StatusCreated, "message sent", gin.H{"message_id": messageID})
}

// MarkRead marks all contact messages in a conversation as read
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	conversationID := c.Param("id")

	if err := h.conversationService.MarkRead(c.Request.Context(), conversationID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "conversation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to mark conversation read", err)
		return
	}

	response.Success(c, http.StatusOK, "conversation marked read", nil)
}
