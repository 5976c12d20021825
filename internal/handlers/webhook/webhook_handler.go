// internal/handlers/webhook/webhook_handler.go
package webhook

import (
	"errors"
	"net/http"
	"time"

	"leadflow-service/internal/domain/webhook"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/response"
	"leadflow-service/internal/service/ingest"
	service "leadflow-service/internal/service/webhook"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	ingestService *ingest.Service
	auditor       *ingest.Auditor
	configService *service.ConfigService
	tester        *service.Tester
	logger        *zap.Logger
}

func NewWebhookHandler(
	ingestService *ingest.Service,
	auditor *ingest.Auditor,
	configService *service.ConfigService,
	tester *service.Tester,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		ingestService: ingestService,
		auditor:       auditor,
		configService: configService,
		tester:        tester,
		logger:        logger,
	}
}

// HandleInbound receives the provider callback for an incoming message.
// The provider retries on non-2xx, so every failure path answers 500 and the
// whole pipeline is safe to repeat.
func (h *WebhookHandler) HandleInbound(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	var payload webhook.InboundPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("malformed webhook payload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, webhook.InboundResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.logger.Info("webhook received",
		zap.String("from", payload.From),
		zap.String("fromName", payload.FromName),
	)

	result, err := h.ingestService.Process(ctx, &payload)
	if err != nil {
		// Validation failures happen before any store access and are not
		// audited; there is no config context for them yet.
		if !errors.Is(err, ingest.ErrMissingFields) {
			h.auditor.RecordError(ctx, http.StatusInternalServerError, err.Error(), time.Since(start))
		}

		h.logger.Error("webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, webhook.InboundResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	// Best-effort audit; the domain write already succeeded.
	h.auditor.RecordSuccess(ctx, map[string]interface{}{
		"from":      payload.From,
		"fromName":  payload.FromName,
		"message":   payload.Message,
		"timestamp": payload.Timestamp,
	}, time.Since(start))

	c.JSON(http.StatusOK, webhook.InboundResponse{
		Success:        true,
		Message:        "Message received and processed",
		ContactID:      result.ContactID,
		ConversationID: result.ConversationID,
	})
}

// HandleTestConnection probes a webhook URL for the settings screen. The
// probe result is always a 200; only a missing URL is an HTTP-level error.
func (h *WebhookHandler) HandleTestConnection(c *gin.Context) {
	var req webhook.TestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WebhookURL == "" {
		c.JSON(http.StatusBadRequest, webhook.TestResult{
			Success: false,
			Message: "webhook_url is required",
		})
		return
	}

	result := h.tester.Test(c.Request.Context(), req.WebhookURL)
	c.JSON(http.StatusOK, result)
}

// GetConfig returns the provider's webhook configuration.
func (h *WebhookHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configService.GetConfig(c.Request.Context())
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "webhook config not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load webhook config", err)
		return
	}

	response.Success(c, http.StatusOK, "webhook config retrieved", cfg)
}

// SaveConfig upserts the provider's webhook configuration.
func (h *WebhookHandler) SaveConfig(c *gin.Context) {
	var req webhook.SaveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	cfg, err := h.configService.SaveConfig(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to save webhook config", err)
		return
	}

	response.Success(c, http.StatusOK, "webhook config saved", cfg)
}

// ListLogs returns recent delivery audit entries.
func (h *WebhookHandler) ListLogs(c *gin.Context) {
	var filters webhook.LogListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	logs, err := h.configService.ListLogs(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list webhook logs", err)
		return
	}

	response.Success(c, http.StatusOK, "webhook logs retrieved", logs)
}
