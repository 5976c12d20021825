// internal/service/metrics/metrics.go
package metrics

import (
	"context"
	"fmt"
	"time"

	"leadflow-service/internal/domain/contact"
	"leadflow-service/internal/domain/metrics"

	"go.uber.org/zap"
)

type ContactRepo interface {
	Count(ctx context.Context) (int64, error)
	CountByStage(ctx context.Context) ([]contact.StageCount, error)
}

type ConversationRepo interface {
	Count(ctx context.Context) (int64, error)
}

type MessageRepo interface {
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

type AppointmentRepo interface {
	CountInRange(ctx context.Context, from, to time.Time) (int64, error)
}

// MetricsService aggregates the dashboard counters. Pure reads, no caching:
// the dashboard tolerates a few hundred milliseconds.
type MetricsService struct {
	contactRepo      ContactRepo
	conversationRepo ConversationRepo
	messageRepo      MessageRepo
	appointmentRepo  AppointmentRepo
	logger           *zap.Logger
}

func NewMetricsService(
	contactRepo ContactRepo,
	conversationRepo ConversationRepo,
	messageRepo MessageRepo,
	appointmentRepo AppointmentRepo,
	logger *zap.Logger,
) *MetricsService {
	return &MetricsService{
		contactRepo:      contactRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		appointmentRepo:  appointmentRepo,
		logger:           logger,
	}
}

// DashboardStats collects the dashboard snapshot.
func (s *MetricsService) DashboardStats(ctx context.Context) (*metrics.DashboardStats, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	stats := &metrics.DashboardStats{}
	var err error

	if stats.TotalContacts, err = s.contactRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	if stats.ContactsByStage, err = s.contactRepo.CountByStage(ctx); err != nil {
		return nil, fmt.Errorf("failed to count stages: %w", err)
	}
	if stats.ActiveConversations, err = s.conversationRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count conversations: %w", err)
	}
	if stats.MessagesToday, err = s.messageRepo.CountSince(ctx, dayStart); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	if stats.UnreadMessages, err = s.messageRepo.CountUnread(ctx); err != nil {
		return nil, fmt.Errorf("failed to count unread: %w", err)
	}
	if stats.AppointmentsToday, err = s.appointmentRepo.CountInRange(ctx, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	s.logger.Debug("dashboard stats collected",
		zap.Int64("contacts", stats.TotalContacts),
		zap.Int64("messages_today", stats.MessagesToday),
	)

	return stats, nil
}
