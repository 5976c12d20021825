// internal/handlers/tag/tag_handler.go
package tag

import (
	"net/http"

	"leadflow-service/internal/domain/tag"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/tag"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

// CreateTag creates a new tag
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req tag.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.tagService.CreateTag(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid tag", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create tag", err)
		return
	}

	response.Success(c, http.StatusCreated, "tag created successfully", result)
}

// ListTags retrieves all tags
func (h *TagHandler) ListTags(c *gin.Context) {
	result, err := h.tagService.ListTags(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list tags", err)
		return
	}

	response.Success(c, http.StatusOK, "tags retrieved", result)
}

// DeleteTag removes a tag and its links
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id := c.Param("id")

	if err := h.tagService.DeleteTag(c.Request.Context(), id); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "tag not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete tag", err)
		return
	}

	response.Success(c, http.StatusOK, "tag deleted", nil)
}
