package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leadflow-service/internal/domain/contact"
	"leadflow-service/internal/domain/conversation"
	webhookdom "leadflow-service/internal/domain/webhook"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/service/ingest"
	service "leadflow-service/internal/service/webhook"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ---- fakes ----

type fakeContactStore struct {
	seq    int
	byID   map[string]*contact.Contact
	writes int
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{byID: map[string]*contact.Contact{}}
}

func (f *fakeContactStore) FindByPhone(_ context.Context, phone string) (*contact.Contact, error) {
	for _, c := range f.byID {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeContactStore) Create(_ context.Context, c *contact.Contact) error {
	f.seq++
	f.writes++
	c.ID = fmt.Sprintf("contact-%d", f.seq)
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeContactStore) TouchLastContact(_ context.Context, id string) error {
	f.writes++
	if _, ok := f.byID[id]; !ok {
		return xerrors.ErrNotFound
	}
	return nil
}

type fakeConversationStore struct {
	seq    int
	byID   map[string]*conversation.Conversation
	writes int
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{byID: map[string]*conversation.Conversation{}}
}

func (f *fakeConversationStore) FindByContact(_ context.Context, contactID string) (*conversation.Conversation, error) {
	for _, c := range f.byID {
		if c.ContactID == contactID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeConversationStore) Create(_ context.Context, c *conversation.Conversation) error {
	f.seq++
	f.writes++
	c.ID = fmt.Sprintf("conversation-%d", f.seq)
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeConversationStore) IncrementMessageCount(_ context.Context, id string) error {
	f.writes++
	c, ok := f.byID[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	c.MessageCount++
	return nil
}

type fakeMessageStore struct {
	seq      int
	messages []conversation.Message
}

func (f *fakeMessageStore) Create(_ context.Context, m *conversation.Message) error {
	f.seq++
	m.ID = fmt.Sprintf("message-%d", f.seq)
	f.messages = append(f.messages, *m)
	return nil
}

type fakeConfigStore struct {
	cfg        *webhookdom.Config
	successes  int
	errorsSeen int
}

func (f *fakeConfigStore) FindActiveByProvider(_ context.Context, _ string) (*webhookdom.Config, error) {
	if f.cfg == nil {
		return nil, xerrors.ErrNotFound
	}
	cp := *f.cfg
	return &cp, nil
}

func (f *fakeConfigStore) MarkSyncSuccess(_ context.Context, _ string, _ time.Time) error {
	f.successes++
	return nil
}

func (f *fakeConfigStore) MarkSyncError(_ context.Context, _ string, _ string) error {
	f.errorsSeen++
	return nil
}

type fakeLogStore struct {
	logs    []webhookdom.Log
	failAll bool
}

func (f *fakeLogStore) Create(_ context.Context, l *webhookdom.Log) error {
	if f.failAll {
		return errors.New("log table unavailable")
	}
	f.logs = append(f.logs, *l)
	return nil
}

type noopLocker struct{}

func (noopLocker) Acquire(_ context.Context, _ string) (func(), error) {
	return func() {}, nil
}

// ---- harness ----

type handlerHarness struct {
	router        *gin.Engine
	contacts      *fakeContactStore
	conversations *fakeConversationStore
	messages      *fakeMessageStore
	configs       *fakeConfigStore
	logs          *fakeLogStore
}

func newHandlerHarness(t *testing.T) *handlerHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	contacts := newFakeContactStore()
	conversations := newFakeConversationStore()
	messages := &fakeMessageStore{}
	configs := &fakeConfigStore{cfg: &webhookdom.Config{ID: "cfg-1", WebhookURL: "https://example.com/hook"}}
	logs := &fakeLogStore{}

	resolver := ingest.NewResolver(contacts, conversations, noopLocker{}, logger)
	appender := ingest.NewAppender(messages, conversations, contacts, logger)
	auditor := ingest.NewAuditor(configs, logs, "whatsapp", logger)
	ingestService := ingest.NewService(resolver, appender, nil, logger)
	configService := service.NewConfigService(nil, nil, "whatsapp", logger)
	tester := service.NewTester(time.Second, logger)

	h := NewWebhookHandler(ingestService, auditor, configService, tester, logger)

	router := gin.New()
	router.POST("/webhook-whatsapp", h.HandleInbound)
	router.POST("/test-webhook-connection", h.HandleTestConnection)

	return &handlerHarness{
		router:        router,
		contacts:      contacts,
		conversations: conversations,
		messages:      messages,
		configs:       configs,
		logs:          logs,
	}
}

func (hh *handlerHarness) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	hh.router.ServeHTTP(rec, req)
	return rec
}

// ---- tests ----

func TestHandleInboundCreatesContactAndConversation(t *testing.T) {
	hh := newHandlerHarness(t)

	rec := hh.post("/webhook-whatsapp", `{"from":"+5511999999999","fromName":"Ana","message":"Oi"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp webhookdom.InboundResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("success = false, want true: %s", rec.Body.String())
	}
	if resp.ContactID == "" || resp.ConversationID == "" {
		t.Fatalf("missing ids in response: %+v", resp)
	}
	if len(hh.messages.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(hh.messages.messages))
	}
}

func TestHandleInboundRepeatReturnsSameIDs(t *testing.T) {
	hh := newHandlerHarness(t)

	first := hh.post("/webhook-whatsapp", `{"from":"+5511999999999","message":"Oi"}`)
	second := hh.post("/webhook-whatsapp", `{"from":"+5511999999999","message":"Tudo bem?"}`)

	var a, b webhookdom.InboundResponse
	if err := json.Unmarshal(first.Body.Bytes(), &a); err != nil {
		t.Fatalf("unmarshal first: %v", err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &b); err != nil {
		t.Fatalf("unmarshal second: %v", err)
	}

	if a.ContactID != b.ContactID || a.ConversationID != b.ConversationID {
		t.Fatalf("repeat post resolved to different ids: %+v vs %+v", a, b)
	}
	if len(hh.messages.messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(hh.messages.messages))
	}
}

func TestHandleInboundMissingMessageRejectsWithoutWrites(t *testing.T) {
	hh := newHandlerHarness(t)

	rec := hh.post("/webhook-whatsapp", `{"from":"+5511999999999"}`)

	if rec.Code < 300 {
		t.Fatalf("status = %d, want non-2xx", rec.Code)
	}

	var resp webhookdom.InboundResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success {
		t.Fatal("success = true for invalid payload")
	}
	if resp.Error == "" {
		t.Fatal("error field empty for invalid payload")
	}

	if hh.contacts.writes != 0 || hh.conversations.writes != 0 || len(hh.messages.messages) != 0 {
		t.Fatalf("validation failure touched stores: contacts=%d conversations=%d messages=%d",
			hh.contacts.writes, hh.conversations.writes, len(hh.messages.messages))
	}
	if len(hh.logs.logs) != 0 {
		t.Fatalf("validation failure was audited: %d logs", len(hh.logs.logs))
	}
}

func TestHandleInboundSuccessIsAudited(t *testing.T) {
	hh := newHandlerHarness(t)

	hh.post("/webhook-whatsapp", `{"from":"+5511999999999","fromName":"Ana","message":"Oi"}`)

	if len(hh.logs.logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(hh.logs.logs))
	}
	if hh.logs.logs[0].EventType != webhookdom.EventMessageReceived {
		t.Fatalf("event type = %s, want %s", hh.logs.logs[0].EventType, webhookdom.EventMessageReceived)
	}
	if hh.configs.successes != 1 {
		t.Fatalf("sync successes = %d, want 1", hh.configs.successes)
	}
}

func TestHandleInboundAuditFailureDoesNotMaskSuccess(t *testing.T) {
	hh := newHandlerHarness(t)
	hh.logs.failAll = true

	rec := hh.post("/webhook-whatsapp", `{"from":"+5511999999999","message":"Oi"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite audit failure", rec.Code)
	}

	var resp webhookdom.InboundResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || resp.ContactID == "" || resp.ConversationID == "" {
		t.Fatalf("audit failure leaked into response: %+v", resp)
	}
}

func TestHandleTestConnectionRequiresURL(t *testing.T) {
	hh := newHandlerHarness(t)

	rec := hh.post("/test-webhook-connection", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp webhookdom.TestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success {
		t.Fatal("success = true for missing webhook_url")
	}
}

func TestHandleTestConnectionReportsProbeFailureWith200(t *testing.T) {
	hh := newHandlerHarness(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	rec := hh.post("/test-webhook-connection", `{"webhook_url":"`+upstream.URL+`"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp webhookdom.TestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success {
		t.Fatal("success = true for 502 upstream")
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status_code = %d, want 502", resp.StatusCode)
	}
}
