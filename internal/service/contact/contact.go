// internal/service/contact/contact.go
package contact

import (
	"context"
	"database/sql"
	"fmt"

	"leadflow-service/internal/domain/contact"
	"leadflow-service/internal/domain/tag"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/realtime"

	"go.uber.org/zap"
)

type ContactRepo interface {
	Create(ctx context.Context, c *contact.Contact) error
	FindByID(ctx context.Context, id string) (*contact.Contact, error)
	FindByPhone(ctx context.Context, phone string) (*contact.Contact, error)
	Update(ctx context.Context, id string, c *contact.Contact) error
	UpdateStage(ctx context.Context, id string, stage contact.Stage) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *contact.ContactListFilters) ([]contact.ContactWithTags, int64, error)
}

type ConversationRepo interface {
	DeleteByContact(ctx context.Context, contactID string) error
}

type MessageRepo interface {
	DeleteByContact(ctx context.Context, contactID string) error
}

type TagRepo interface {
	Assign(ctx context.Context, contactID, tagID string) error
	Unassign(ctx context.Context, contactID, tagID string) error
	RemoveAllFromContact(ctx context.Context, contactID string) error
	ListByContact(ctx context.Context, contactID string) ([]tag.Tag, error)
}

type AppointmentRepo interface {
	DeleteByContact(ctx context.Context, contactID string) error
}

type Publisher interface {
	Publish(channel realtime.ChannelType, eventType realtime.EventType, data interface{})
}

type ContactService struct {
	contactRepo      ContactRepo
	conversationRepo ConversationRepo
	messageRepo      MessageRepo
	tagRepo          TagRepo
	appointmentRepo  AppointmentRepo
	publisher        Publisher
	logger           *zap.Logger
}

func NewContactService(
	contactRepo ContactRepo,
	conversationRepo ConversationRepo,
	messageRepo MessageRepo,
	tagRepo TagRepo,
	appointmentRepo AppointmentRepo,
	publisher Publisher,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contactRepo:      contactRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		tagRepo:          tagRepo,
		appointmentRepo:  appointmentRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

// CreateContact creates a contact from the UI. Inbound webhook creation goes
// through the resolver instead.
func (s *ContactService) CreateContact(ctx context.Context, req *contact.CreateContactRequest) (*contact.Contact, error) {
	if req.Stage != "" && !contact.ValidStage(req.Stage) {
		return nil, fmt.Errorf("%w: unknown stage %q", xerrors.ErrInvalidInput, req.Stage)
	}

	if existing, err := s.contactRepo.FindByPhone(ctx, req.Phone); err == nil {
		return nil, fmt.Errorf("%w: phone %s already belongs to contact %s",
			xerrors.ErrConflict, req.Phone, existing.ID)
	} else if !xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}

	c := &contact.Contact{
		Name:   req.Name,
		Phone:  req.Phone,
		Stage:  req.Stage,
		UserID: sql.NullString{String: req.UserID, Valid: req.UserID != ""},
	}

	if err := s.contactRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create contact", zap.Error(err))
		return nil, err
	}

	s.logger.Info("contact created", zap.String("contact_id", c.ID))
	return c, nil
}

// GetContact retrieves a contact with its tags.
func (s *ContactService) GetContact(ctx context.Context, id string) (*contact.ContactWithTags, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.ListByContact(ctx, id)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}

	return &contact.ContactWithTags{Contact: *c, Tags: names}, nil
}

// ListContacts retrieves contacts for the kanban board.
func (s *ContactService) ListContacts(ctx context.Context, filters *contact.ContactListFilters) (*contact.ContactListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 50
	}
	if filters.PageSize > 200 {
		filters.PageSize = 200
	}

	contacts, total, err := s.contactRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &contact.ContactListResponse{
		Contacts:   contacts,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateContact rewrites provided fields.
func (s *ContactService) UpdateContact(ctx context.Context, id string, req *contact.UpdateContactRequest) (*contact.Contact, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Stage != nil {
		if !contact.ValidStage(*req.Stage) {
			return nil, fmt.Errorf("%w: unknown stage %q", xerrors.ErrInvalidInput, *req.Stage)
		}
		c.Stage = *req.Stage
	}
	if req.UserID != nil {
		c.UserID = sql.NullString{String: *req.UserID, Valid: *req.UserID != ""}
	}

	if err := s.contactRepo.Update(ctx, id, c); err != nil {
		s.logger.Error("failed to update contact", zap.Error(err))
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(realtime.ChannelContacts, realtime.EventTypeContactUpdated,
			map[string]interface{}{"contact_id": id})
	}

	return s.contactRepo.FindByID(ctx, id)
}

// MoveStage moves a contact across the funnel (kanban drag).
func (s *ContactService) MoveStage(ctx context.Context, id string, stage contact.Stage) error {
	if !contact.ValidStage(stage) {
		return fmt.Errorf("%w: unknown stage %q", xerrors.ErrInvalidInput, stage)
	}

	if err := s.contactRepo.UpdateStage(ctx, id, stage); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(realtime.ChannelContacts, realtime.EventTypeContactUpdated,
			map[string]interface{}{"contact_id": id, "stage": stage})
	}

	s.logger.Info("contact stage moved", zap.String("contact_id", id), zap.String("stage", string(stage)))
	return nil
}

// DeleteContact cascades in dependency order: messages, then conversations,
// then tag links and appointments, then the contact row itself. A failure
// mid-cascade aborts and leaves the remaining rows for a retry; each step is
// idempotent so re-running the delete finishes the job.
func (s *ContactService) DeleteContact(ctx context.Context, id string) error {
	if _, err := s.contactRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.messageRepo.DeleteByContact(ctx, id); err != nil {
		return fmt.Errorf("cascade: %w", err)
	}
	if err := s.conversationRepo.DeleteByContact(ctx, id); err != nil {
		return fmt.Errorf("cascade: %w", err)
	}
	if err := s.tagRepo.RemoveAllFromContact(ctx, id); err != nil {
		return fmt.Errorf("cascade: %w", err)
	}
	if err := s.appointmentRepo.DeleteByContact(ctx, id); err != nil {
		return fmt.Errorf("cascade: %w", err)
	}
	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("cascade: %w", err)
	}

	s.logger.Info("contact deleted", zap.String("contact_id", id))
	return nil
}

// AssignTag links a tag to a contact.
func (s *ContactService) AssignTag(ctx context.Context, contactID, tagID string) error {
	if _, err := s.contactRepo.FindByID(ctx, contactID); err != nil {
		return err
	}
	return s.tagRepo.Assign(ctx, contactID, tagID)
}

// UnassignTag removes a tag link from a contact.
func (s *ContactService) UnassignTag(ctx context.Context, contactID, tagID string) error {
	return s.tagRepo.Unassign(ctx, contactID, tagID)
}
