// internal/service/tag/tag.go
package tag

import (
	"context"
	"fmt"

	"leadflow-service/internal/domain/tag"
	xerrors "leadflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type TagRepo interface {
	Create(ctx context.Context, t *tag.Tag) error
	List(ctx context.Context) ([]tag.Tag, error)
	Delete(ctx context.Context, id string) error
}

type TagService struct {
	tagRepo TagRepo
	logger  *zap.Logger
}

func NewTagService(tagRepo TagRepo, logger *zap.Logger) *TagService {
	return &TagService{
		tagRepo: tagRepo,
		logger:  logger,
	}
}

// CreateTag creates a label usable across the kanban board.
func (s *TagService) CreateTag(ctx context.Context, req *tag.CreateTagRequest) (*tag.Tag, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: tag name is required", xerrors.ErrInvalidInput)
	}

	t := &tag.Tag{
		Name:  req.Name,
		Color: req.Color,
	}

	if err := s.tagRepo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create tag", zap.Error(err))
		return nil, err
	}

	return t, nil
}

// ListTags returns all tags.
func (s *TagService) ListTags(ctx context.Context) ([]tag.Tag, error) {
	return s.tagRepo.List(ctx)
}

// DeleteTag removes a tag and its contact links.
func (s *TagService) DeleteTag(ctx context.Context, id string) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("tag deleted", zap.String("tag_id", id))
	return nil
}
