// internal/service/webhook/service.go
package webhook

import (
	"context"
	"database/sql"
	"fmt"

	"leadflow-service/internal/domain/webhook"
	xerrors "leadflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type ConfigRepo interface {
	Create(ctx context.Context, cfg *webhook.Config) error
	Update(ctx context.Context, id string, cfg *webhook.Config) error
	FindByProvider(ctx context.Context, provider string) (*webhook.Config, error)
}

type LogRepo interface {
	ListRecent(ctx context.Context, configID string, filters *webhook.LogListFilters) ([]webhook.Log, error)
}

// ConfigService manages the operator-facing webhook configuration and its
// audit trail.
type ConfigService struct {
	configRepo ConfigRepo
	logRepo    LogRepo
	provider   string
	logger     *zap.Logger
}

func NewConfigService(configRepo ConfigRepo, logRepo LogRepo, provider string, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		configRepo: configRepo,
		logRepo:    logRepo,
		provider:   provider,
		logger:     logger,
	}
}

// GetConfig returns the provider's configuration row, or ErrNotFound when
// none was saved yet.
func (s *ConfigService) GetConfig(ctx context.Context) (*webhook.Config, error) {
	return s.configRepo.FindByProvider(ctx, s.provider)
}

// SaveConfig upserts the provider configuration: updates the existing row in
// place, or creates the first one.
func (s *ConfigService) SaveConfig(ctx context.Context, req *webhook.SaveConfigRequest) (*webhook.Config, error) {
	cfg := &webhook.Config{
		Provider:     s.provider,
		WebhookURL:   req.WebhookURL,
		WebhookToken: sql.NullString{String: req.WebhookToken, Valid: req.WebhookToken != ""},
		VerifyToken:  sql.NullString{String: req.VerifyToken, Valid: req.VerifyToken != ""},
		IsActive:     req.IsActive,
		UserID:       sql.NullString{String: req.UserID, Valid: req.UserID != ""},
	}

	existing, err := s.configRepo.FindByProvider(ctx, s.provider)
	switch {
	case err == nil:
		if err := s.configRepo.Update(ctx, existing.ID, cfg); err != nil {
			return nil, fmt.Errorf("failed to update webhook config: %w", err)
		}
		s.logger.Info("webhook config updated", zap.String("config_id", existing.ID))
		return s.configRepo.FindByProvider(ctx, s.provider)

	case xerrors.Is(err, xerrors.ErrNotFound):
		if err := s.configRepo.Create(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to create webhook config: %w", err)
		}
		s.logger.Info("webhook config created", zap.String("config_id", cfg.ID))
		return cfg, nil

	default:
		return nil, fmt.Errorf("failed to load webhook config: %w", err)
	}
}

// ListLogs returns the provider's recent delivery audit entries.
func (s *ConfigService) ListLogs(ctx context.Context, filters *webhook.LogListFilters) ([]webhook.Log, error) {
	cfg, err := s.configRepo.FindByProvider(ctx, s.provider)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return []webhook.Log{}, nil
		}
		return nil, err
	}

	return s.logRepo.ListRecent(ctx, cfg.ID, filters)
}
