// internal/handlers/metrics/metrics_handler.go
package metrics

import (
	"net/http"

	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/metrics"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	metricsService *service.MetricsService
}

func NewMetricsHandler(metricsService *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
	}
}

// GetDashboardStats returns the dashboard counters
func (h *MetricsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.metricsService.DashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load dashboard stats", err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard stats retrieved", stats)
}
