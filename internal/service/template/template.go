// internal/service/template/template.go
package template

import (
	"context"
	"database/sql"

	"leadflow-service/internal/domain/template"

	"go.uber.org/zap"
)

type TemplateRepo interface {
	Create(ctx context.Context, t *template.MessageTemplate) error
	FindByID(ctx context.Context, id string) (*template.MessageTemplate, error)
	List(ctx context.Context, onlyActive bool) ([]template.MessageTemplate, error)
	Update(ctx context.Context, id string, t *template.MessageTemplate) error
	Delete(ctx context.Context, id string) error
}

type TemplateService struct {
	templateRepo TemplateRepo
	logger       *zap.Logger
}

func NewTemplateService(templateRepo TemplateRepo, logger *zap.Logger) *TemplateService {
	return &TemplateService{templateRepo: templateRepo, logger: logger}
}

// CreateTemplate saves a reusable canned reply.
func (s *TemplateService) CreateTemplate(ctx context.Context, req *template.CreateTemplateRequest) (*template.MessageTemplate, error) {
	t := &template.MessageTemplate{
		UserID:   sql.NullString{String: req.UserID, Valid: req.UserID != ""},
		Name:     req.Name,
		Content:  req.Content,
		Category: sql.NullString{String: req.Category, Valid: req.Category != ""},
		IsActive: req.IsActive,
	}

	if err := s.templateRepo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create template", zap.Error(err))
		return nil, err
	}

	return t, nil
}

// ListTemplates returns templates, optionally active-only for the selector.
func (s *TemplateService) ListTemplates(ctx context.Context, onlyActive bool) ([]template.MessageTemplate, error) {
	return s.templateRepo.List(ctx, onlyActive)
}

// UpdateTemplate rewrites provided fields.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, req *template.UpdateTemplateRequest) (*template.MessageTemplate, error) {
	t, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Content != nil {
		t.Content = *req.Content
	}
	if req.Category != nil {
		t.Category = sql.NullString{String: *req.Category, Valid: *req.Category != ""}
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := s.templateRepo.Update(ctx, id, t); err != nil {
		return nil, err
	}

	return s.templateRepo.FindByID(ctx, id)
}

// DeleteTemplate removes a template.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	return s.templateRepo.Delete(ctx, id)
}
