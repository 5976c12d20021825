// internal/app/router.go
package app

import (
	appointmentHandler "leadflow-service/internal/handlers/appointment"
	contactHandler "leadflow-service/internal/handlers/contact"
	conversationHandler "leadflow-service/internal/handlers/conversation"
	metricsHandler "leadflow-service/internal/handlers/metrics"
	realtimeHandler "leadflow-service/internal/handlers/realtime"
	tagHandler "leadflow-service/internal/handlers/tag"
	templateHandler "leadflow-service/internal/handlers/template"
	webhookHandler "leadflow-service/internal/handlers/webhook"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	WebhookHandler      *webhookHandler.WebhookHandler
	ContactHandler      *contactHandler.ContactHandler
	ConversationHandler *conversationHandler.ConversationHandler
	TagHandler          *tagHandler.TagHandler
	AppointmentHandler  *appointmentHandler.AppointmentHandler
	TemplateHandler     *templateHandler.TemplateHandler
	MetricsHandler      *metricsHandler.MetricsHandler
	RealtimeHandler     *realtimeHandler.RealtimeHandler
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	// ==================== Provider Webhooks ====================
	// Wire-level endpoints stay at the root; the provider knows these paths.
	r.POST("/webhook-whatsapp", h.WebhookHandler.HandleInbound)
	r.POST("/test-webhook-connection", h.WebhookHandler.HandleTestConnection)

	// ==================== WebSocket ====================
	r.GET("/ws", h.RealtimeHandler.HandleConnection)

	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Webhook Settings ====================
	webhook := api.Group("/webhook")
	{
		webhook.GET("/config", h.WebhookHandler.GetConfig)
		webhook.PUT("/config", h.WebhookHandler.SaveConfig)
		webhook.GET("/logs", h.WebhookHandler.ListLogs)
	}

	// ==================== Contacts ====================
	contacts := api.Group("/contacts")
	{
		contacts.POST("", h.ContactHandler.CreateContact)
		contacts.GET("", h.ContactHandler.ListContacts)
		contacts.GET("/:id", h.ContactHandler.GetContact)
		contacts.PUT("/:id", h.ContactHandler.UpdateContact)
		contacts.PATCH("/:id/stage", h.ContactHandler.MoveStage)
		contacts.DELETE("/:id", h.ContactHandler.DeleteContact)
		contacts.POST("/:id/tags/:tagId", h.ContactHandler.AssignTag)
		contacts.DELETE("/:id/tags/:tagId", h.ContactHandler.UnassignTag)
	}

	// ==================== Conversations ====================
	conversations := api.Group("/conversations")
	{
		conversations.GET("", h.ConversationHandler.ListConversations)
		conversations.GET("/:id/messages", h.ConversationHandler.ListMessages)
		conversations.POST("/:id/messages", h.ConversationHandler.SendMessage)
		conversations.POST("/:id/read", h.ConversationHandler.MarkRead)
	}

	// ==================== Tags ====================
	tags := api.Group("/tags")
	{
		tags.POST("", h.TagHandler.CreateTag)
		tags.GET("", h.TagHandler.ListTags)
		tags.DELETE("/:id", h.TagHandler.DeleteTag)
	}

	// ==================== Appointments ====================
	appointments := api.Group("/appointments")
	{
		appointments.POST("", h.AppointmentHandler.CreateAppointment)
		appointments.GET("", h.AppointmentHandler.ListAppointments)
		appointments.PUT("/:id", h.AppointmentHandler.UpdateAppointment)
		appointments.DELETE("/:id", h.AppointmentHandler.DeleteAppointment)
	}

	// ==================== Templates ====================
	templates := api.Group("/templates")
	{
		templates.POST("", h.TemplateHandler.CreateTemplate)
		templates.GET("", h.TemplateHandler.ListTemplates)
		templates.PUT("/:id", h.TemplateHandler.UpdateTemplate)
		templates.DELETE("/:id", h.TemplateHandler.DeleteTemplate)
	}

	// ==================== Metrics ====================
	api.GET("/metrics/dashboard", h.MetricsHandler.GetDashboardStats)
}
