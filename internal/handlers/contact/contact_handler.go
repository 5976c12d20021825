// internal/handlers/contact/contact_handler.go
package contact

import (
	"net/http"

	"leadflow-service/internal/domain/contact"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/contact"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// CreateContact creates a new contact
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req contact.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.contactService.CreateContact(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrConflict) {
			response.Error(c, http.StatusConflict, "phone already in use", err)
			return
		}
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid contact", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create contact", err)
		return
	}

	response.Success(c, http.StatusCreated, "contact created successfully", result)
}

// GetContact retrieves a contact with its tags
func (h *ContactHandler) GetContact(c *gin.Context) {
	id := c.Param("id")

	result, err := h.contactService.GetContact(c.Request.Context(), id)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get contact", err)
		return
	}

	response.Success(c, http.StatusOK, "contact retrieved", result)
}

// ListContacts retrieves contacts with filters
func (h *ContactHandler) ListContacts(c *gin.Context) {
	var filters contact.ContactListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.contactService.ListContacts(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list contacts", err)
		return
	}

	response.Success(c, http.StatusOK, "contacts retrieved", result)
}

// UpdateContact updates contact fields
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id := c.Param("id")

	var req contact.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.contactService.UpdateContact(c.Request.Context(), id, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid contact", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update contact", err)
		return
	}

	response.Success(c, http.StatusOK, "contact updated", result)
}

// MoveStage moves a contact across the funnel
func (h *ContactHandler) MoveStage(c *gin.Context) {
	id := c.Param("id")

	var req contact.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.contactService.MoveStage(c.Request.Context(), id, req.Stage); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid stage", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to move stage", err)
		return
	}

	response.Success(c, http.StatusOK, "stage updated", nil)
}

// DeleteContact removes a contact and everything hanging off it
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id := c.Param("id")

	if err := h.contactService.DeleteContact(c.Request.Context(), id); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete contact", err)
		return
	}

	response.Success(c, http.StatusOK, "contact deleted", nil)
}

// AssignTag links a tag to a contact
func (h *ContactHandler) AssignTag(c *gin.Context) {
	contactID := c.Param("id")
	tagID := c.Param("tagId")

	if err := h.contactService.AssignTag(c.Request.Context(), contactID, tagID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to assign tag", err)
		return
	}

	response.Success(c, http.StatusOK, "tag assigned", nil)
}

// UnassignTag removes a tag link from a contact
func (h *ContactHandler) UnassignTag(c *gin.Context) {
	contactID := c.Param("id")
	tagID := c.Param("tagId")

	if err := h.contactService.UnassignTag(c.Request.Context(), contactID, tagID); err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to unassign tag", err)
		return
	}

	response.Success(c, http.StatusOK, "tag unassigned", nil)
}
