// internal/service/ingest/auditor.go
package ingest

import (
	"context"
	"database/sql"
	"time"

	"leadflow-service/internal/domain/webhook"

	"go.uber.org/zap"
)

// Auditor records the outcome of each webhook delivery against the active
// configuration. Auditing is best-effort: every error here is swallowed and
// logged, never surfaced, so bookkeeping can never mask the primary result.
type Auditor struct {
	configs  ConfigStore
	logs     LogStore
	provider string
	logger   *zap.Logger
}

func NewAuditor(configs ConfigStore, logs LogStore, provider string, logger *zap.Logger) *Auditor {
	return &Auditor{
		configs:  configs,
		logs:     logs,
		provider: provider,
		logger:   logger,
	}
}

// RecordSuccess audits a processed delivery and marks the config healthy.
func (a *Auditor) RecordSuccess(ctx context.Context, payload map[string]interface{}, elapsed time.Duration) {
	cfg := a.activeConfig(ctx)
	if cfg == nil {
		return
	}

	l := &webhook.Log{
		WebhookConfigID: cfg.ID,
		EventType:       webhook.EventMessageReceived,
		Payload:         payload,
		StatusCode:      sql.NullInt32{Int32: 200, Valid: true},
		ResponseTimeMs:  sql.NullInt64{Int64: elapsed.Milliseconds(), Valid: true},
	}
	if err := a.logs.Create(ctx, l); err != nil {
		a.logger.Warn("failed to write webhook log", zap.Error(err))
	}

	if err := a.configs.MarkSyncSuccess(ctx, cfg.ID, time.Now()); err != nil {
		a.logger.Warn("failed to mark sync success", zap.Error(err))
	}
}

// RecordError audits a failed delivery and flags the config unhealthy.
func (a *Auditor) RecordError(ctx context.Context, statusCode int, errMsg string, elapsed time.Duration) {
	cfg := a.activeConfig(ctx)
	if cfg == nil {
		return
	}

	if statusCode == 0 {
		statusCode = 500
	}

	l := &webhook.Log{
		WebhookConfigID: cfg.ID,
		EventType:       webhook.EventError,
		StatusCode:      sql.NullInt32{Int32: int32(statusCode), Valid: true},
		ResponseTimeMs:  sql.NullInt64{Int64: elapsed.Milliseconds(), Valid: true},
		ErrorMessage:    sql.NullString{String: errMsg, Valid: errMsg != ""},
	}
	if err := a.logs.Create(ctx, l); err != nil {
		a.logger.Warn("failed to write webhook error log", zap.Error(err))
	}

	if err := a.configs.MarkSyncError(ctx, cfg.ID, errMsg); err != nil {
		a.logger.Warn("failed to mark sync error", zap.Error(err))
	}
}

// activeConfig returns the audit target, or nil when no active config exists
// (auditing is then a silent no-op).
func (a *Auditor) activeConfig(ctx context.Context) *webhook.Config {
	cfg, err := a.configs.FindActiveByProvider(ctx, a.provider)
	if err != nil {
		return nil
	}
	return cfg
}
