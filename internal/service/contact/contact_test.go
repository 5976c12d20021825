package contact

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"leadflow-service/internal/domain/contact"
	"leadflow-service/internal/domain/tag"
	xerrors "leadflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// fakeStore backs all repo interfaces with one in-memory row set so the
// cascade can be observed end to end.
type fakeStore struct {
	seq           int
	contacts      map[string]*contact.Contact
	conversations map[string]string   // conversation id -> contact id
	messages      map[string]string   // message id -> conversation id
	tagLinks      map[string][]string // contact id -> tag ids
	appointments  map[string]string   // appointment id -> contact id

	deleteOrder []string
	failOn      string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		contacts:      map[string]*contact.Contact{},
		conversations: map[string]string{},
		messages:      map[string]string{},
		tagLinks:      map[string][]string{},
		appointments:  map[string]string{},
	}
}

func (f *fakeStore) Create(_ context.Context, c *contact.Contact) error {
	f.seq++
	c.ID = fmt.Sprintf("contact-%d", f.seq)
	cp := *c
	f.contacts[c.ID] = &cp
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*contact.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) FindByPhone(_ context.Context, phone string) (*contact.Contact, error) {
	for _, c := range f.contacts {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) Update(_ context.Context, id string, c *contact.Contact) error {
	if _, ok := f.contacts[id]; !ok {
		return xerrors.ErrNotFound
	}
	cp := *c
	cp.ID = id
	f.contacts[id] = &cp
	return nil
}

func (f *fakeStore) UpdateStage(_ context.Context, id string, stage contact.Stage) error {
	c, ok := f.contacts[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	c.Stage = stage
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.failOn == "contact" {
		return errors.New("delete contact failed")
	}
	if _, ok := f.contacts[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.contacts, id)
	f.deleteOrder = append(f.deleteOrder, "contact")
	return nil
}

func (f *fakeStore) List(_ context.Context, _ *contact.ContactListFilters) ([]contact.ContactWithTags, int64, error) {
	out := []contact.ContactWithTags{}
	for _, c := range f.contacts {
		out = append(out, contact.ContactWithTags{Contact: *c})
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) DeleteByContact(_ context.Context, contactID string) error {
	// Shared by the conversation repo fake; messages has its own method via
	// the embedding below.
	if f.failOn == "conversations" {
		return errors.New("delete conversations failed")
	}
	for id, owner := range f.conversations {
		if owner == contactID {
			delete(f.conversations, id)
		}
	}
	f.deleteOrder = append(f.deleteOrder, "conversations")
	return nil
}

type fakeMessages struct{ store *fakeStore }

func (f fakeMessages) DeleteByContact(_ context.Context, contactID string) error {
	if f.store.failOn == "messages" {
		return errors.New("delete messages failed")
	}
	for msgID, convID := range f.store.messages {
		if f.store.conversations[convID] == contactID {
			delete(f.store.messages, msgID)
		}
	}
	f.store.deleteOrder = append(f.store.deleteOrder, "messages")
	return nil
}

type fakeTags struct{ store *fakeStore }

func (f fakeTags) Assign(_ context.Context, contactID, tagID string) error {
	for _, existing := range f.store.tagLinks[contactID] {
		if existing == tagID {
			return nil
		}
	}
	f.store.tagLinks[contactID] = append(f.store.tagLinks[contactID], tagID)
	return nil
}

func (f fakeTags) Unassign(_ context.Context, contactID, tagID string) error {
	links := f.store.tagLinks[contactID]
	for i, existing := range links {
		if existing == tagID {
			f.store.tagLinks[contactID] = append(links[:i], links[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f fakeTags) RemoveAllFromContact(_ context.Context, contactID string) error {
	delete(f.store.tagLinks, contactID)
	f.store.deleteOrder = append(f.store.deleteOrder, "tags")
	return nil
}

func (f fakeTags) ListByContact(_ context.Context, contactID string) ([]tag.Tag, error) {
	out := []tag.Tag{}
	for _, id := range f.store.tagLinks[contactID] {
		out = append(out, tag.Tag{ID: id, Name: "tag-" + id})
	}
	return out, nil
}

type fakeAppointments struct{ store *fakeStore }

func (f fakeAppointments) DeleteByContact(_ context.Context, contactID string) error {
	for id, owner := range f.store.appointments {
		if owner == contactID {
			delete(f.store.appointments, id)
		}
	}
	f.store.deleteOrder = append(f.store.deleteOrder, "appointments")
	return nil
}

func newService(store *fakeStore) *ContactService {
	return NewContactService(
		store,
		store,
		fakeMessages{store},
		fakeTags{store},
		fakeAppointments{store},
		nil,
		zap.NewNop(),
	)
}

func seedContactGraph(t *testing.T, store *fakeStore) string {
	t.Helper()

	c := &contact.Contact{Name: "Ana", Phone: "5511999999999", Stage: contact.StageLead}
	if err := store.Create(context.Background(), c); err != nil {
		t.Fatal(err)
	}

	store.conversations["conv-1"] = c.ID
	store.messages["msg-1"] = "conv-1"
	store.messages["msg-2"] = "conv-1"
	store.messages["msg-3"] = "conv-1"
	store.tagLinks[c.ID] = []string{"tag-1", "tag-2"}
	store.appointments["apt-1"] = c.ID

	return c.ID
}

func TestDeleteContact_CascadeRemovesEverything(t *testing.T) {
	store := newFakeStore()
	id := seedContactGraph(t, store)
	svc := newService(store)

	if err := svc.DeleteContact(context.Background(), id); err != nil {
		t.Fatalf("DeleteContact() error: %v", err)
	}

	if len(store.messages) != 0 {
		t.Fatalf("expected 0 messages, got %d", len(store.messages))
	}
	if len(store.conversations) != 0 {
		t.Fatalf("expected 0 conversations, got %d", len(store.conversations))
	}
	if len(store.tagLinks[id]) != 0 {
		t.Fatalf("expected 0 tag links, got %d", len(store.tagLinks[id]))
	}
	if len(store.contacts) != 0 {
		t.Fatalf("expected 0 contacts, got %d", len(store.contacts))
	}
}

func TestDeleteContact_DependencyOrder(t *testing.T) {
	store := newFakeStore()
	id := seedContactGraph(t, store)
	svc := newService(store)

	if err := svc.DeleteContact(context.Background(), id); err != nil {
		t.Fatalf("DeleteContact() error: %v", err)
	}

	want := []string{"messages", "conversations", "tags", "appointments", "contact"}
	if len(store.deleteOrder) != len(want) {
		t.Fatalf("unexpected cascade steps: %v", store.deleteOrder)
	}
	for i, step := range want {
		if store.deleteOrder[i] != step {
			t.Fatalf("step %d: want %q, got %q (full order %v)", i, step, store.deleteOrder[i], store.deleteOrder)
		}
	}
}

func TestDeleteContact_AbortsOnMidCascadeFailure(t *testing.T) {
	store := newFakeStore()
	id := seedContactGraph(t, store)
	store.failOn = "conversations"
	svc := newService(store)

	if err := svc.DeleteContact(context.Background(), id); err == nil {
		t.Fatalf("expected cascade failure to surface")
	}

	// Contact row must survive so the delete can be retried.
	if _, ok := store.contacts[id]; !ok {
		t.Fatalf("contact must remain after aborted cascade")
	}
}

func TestDeleteContact_UnknownContact(t *testing.T) {
	svc := newService(newFakeStore())

	err := svc.DeleteContact(context.Background(), "nope")
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestCreateContact_RejectsDuplicatePhone(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	if _, err := svc.CreateContact(context.Background(), &contact.CreateContactRequest{
		Name: "Ana", Phone: "5511999999999",
	}); err != nil {
		t.Fatalf("CreateContact() error: %v", err)
	}

	_, err := svc.CreateContact(context.Background(), &contact.CreateContactRequest{
		Name: "Ana 2", Phone: "5511999999999",
	})
	if !xerrors.Is(err, xerrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got: %v", err)
	}
}

func TestMoveStage_RejectsUnknownStage(t *testing.T) {
	store := newFakeStore()
	id := seedContactGraph(t, store)
	svc := newService(store)

	if err := svc.MoveStage(context.Background(), id, "garbage"); !xerrors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}

	if err := svc.MoveStage(context.Background(), id, contact.StageQualified); err != nil {
		t.Fatalf("MoveStage() error: %v", err)
	}
	if store.contacts[id].Stage != contact.StageQualified {
		t.Fatalf("stage not moved, got %q", store.contacts[id].Stage)
	}
}
