// internal/service/ingest/resolver.go
package ingest

import (
	"context"
	"fmt"

	"leadflow-service/internal/domain/contact"
	"leadflow-service/internal/domain/conversation"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/lock"

	"go.uber.org/zap"
)

// Resolution names the records an inbound identity resolved to. The flags
// only feed logging, never control flow.
type Resolution struct {
	Contact         *contact.Contact
	ConversationID  string
	NewContact      bool
	NewConversation bool
}

// Resolver finds or creates the contact and conversation owning an inbound
// phone number. Find-or-create is serialized per phone through a keyed lock
// so two concurrent first-contact callbacks cannot both observe "not found"
// and create duplicate contacts.
type Resolver struct {
	contacts      ContactStore
	conversations ConversationStore
	locker        lock.KeyedLocker
	logger        *zap.Logger
}

func NewResolver(contacts ContactStore, conversations ConversationStore, locker lock.KeyedLocker, logger *zap.Logger) *Resolver {
	return &Resolver{
		contacts:      contacts,
		conversations: conversations,
		locker:        locker,
		logger:        logger,
	}
}

// Resolve maps a phone number to its owning contact and conversation,
// creating either when absent. Repeated calls for the same phone return the
// same identifiers.
func (r *Resolver) Resolve(ctx context.Context, phone, displayName string) (*Resolution, error) {
	if r.locker != nil {
		release, err := r.locker.Acquire(ctx, "phone:"+phone)
		if err != nil {
			// Coordination store unavailable: fall back to the unguarded
			// best-effort path rather than failing the inbound message.
			r.logger.Warn("phone lock unavailable, resolving unguarded",
				zap.String("phone", phone), zap.Error(err))
		} else {
			defer release()
		}
	}

	res := &Resolution{}

	c, err := r.contacts.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		if err := r.contacts.TouchLastContact(ctx, c.ID); err != nil {
			return nil, fmt.Errorf("failed to refresh contact: %w", err)
		}

	case xerrors.Is(err, xerrors.ErrNotFound):
		name := displayName
		if name == "" {
			name = phone
		}
		c = &contact.Contact{
			Name:  name,
			Phone: phone,
			Stage: contact.StageLead,
			// Unassigned; an admin picks up new leads later.
		}
		if err := r.contacts.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}
		res.NewContact = true
		r.logger.Info("new contact created",
			zap.String("contact_id", c.ID), zap.String("phone", phone))

	default:
		return nil, fmt.Errorf("failed to look up contact: %w", err)
	}

	res.Contact = c

	cv, err := r.conversations.FindByContact(ctx, c.ID)
	switch {
	case err == nil:
		res.ConversationID = cv.ID

	case xerrors.Is(err, xerrors.ErrNotFound):
		cv = &conversation.Conversation{
			ContactID: c.ID,
			UserID:    c.UserID, // conversation inherits the contact's owner
		}
		if err := r.conversations.Create(ctx, cv); err != nil {
			// A crash or failure here leaves a contact without a conversation;
			// the next inbound message repairs it.
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		res.ConversationID = cv.ID
		res.NewConversation = true
		r.logger.Info("new conversation created",
			zap.String("conversation_id", cv.ID), zap.String("contact_id", c.ID))

	default:
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}

	return res, nil
}
