// internal/handlers/template/template_handler.go
package template

import (
	"net/http"

	"leadflow-service/internal/domain/template"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/template"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService *service.TemplateService
}

func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// CreateTemplate creates a reusable message template
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req template.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.templateService.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to create template", err)
		return
	}

	response.Success(c, http.StatusCreated, "template created successfully", result)
}

// ListTemplates retrieves templates, optionally only active ones
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	onlyActive := c.DefaultQuery("active", "false") == "true"

	result, err := h.templateService.ListTemplates(c.Request.Context(), onlyActive)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list templates", err)
		return
	}

	response.Success(c, http.StatusOK, "templates retrieved", result)
}

// UpdateTemplate updates template fields
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id := c.Param("id")

	var req template.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.templateService.UpdateTemplate(c.Request.Context(), id, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "template not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update template", err)
		return
	}

	response.Success(c, http.StatusOK, "template updated", result)
}

// DeleteTemplate removes a template
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id := c.Param("id")

	if err := h.templateService.DeleteTemplate(c.Request.Context(), id); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "template not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete template", err)
		return
	}

	response.Success(c, http.StatusOK, "template deleted", nil)
}
