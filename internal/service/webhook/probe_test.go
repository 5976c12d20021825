package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestTester_SuccessfulProbe(t *testing.T) {
	t.Parallel()

	type gotReq struct {
		Method      string
		ContentType string
		Body        []byte
	}
	var captured gotReq

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.ContentType = r.Header.Get("Content-Type")
		captured.Body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tester := NewTester(time.Second, zap.NewNop())
	result := tester.Test(context.Background(), srv.URL)

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", result.StatusCode)
	}
	if result.ResponseTimeMs < 0 {
		t.Fatalf("latency must be non-negative, got %d", result.ResponseTimeMs)
	}

	if captured.Method != http.MethodPost {
		t.Fatalf("expected POST, got %q", captured.Method)
	}
	if !strings.HasPrefix(captured.ContentType, "application/json") {
		t.Fatalf("expected JSON content type, got %q", captured.ContentType)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(captured.Body, &payload); err != nil {
		t.Fatalf("failed to decode probe body: %v body=%q", err, captured.Body)
	}
	if payload["test"] != true {
		t.Fatalf("expected test flag in payload, got %v", payload)
	}
	if payload["from"] != "test" || payload["fromName"] != "Test Connection" {
		t.Fatalf("unexpected synthetic identity: %v", payload)
	}
}

func TestTester_Non2xxIsFailureWithStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tester := NewTester(time.Second, zap.NewNop())
	result := tester.Test(context.Background(), srv.URL)

	if result.Success {
		t.Fatalf("expected failure for 502")
	}
	if result.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", result.StatusCode)
	}
	if !strings.Contains(result.Message, "502") {
		t.Fatalf("expected message to name the status, got %q", result.Message)
	}
}

func TestTester_NetworkFailureHasNoStatusCode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	tester := NewTester(time.Second, zap.NewNop())
	result := tester.Test(context.Background(), srv.URL)

	if result.Success {
		t.Fatalf("expected failure for refused connection")
	}
	if result.StatusCode != 0 {
		t.Fatalf("network failure must not carry a status code, got %d", result.StatusCode)
	}
	if result.Message == "" {
		t.Fatalf("expected the transport error text in the message")
	}
}

func TestTester_TimeoutIsBounded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	tester := NewTester(50*time.Millisecond, zap.NewNop())

	start := time.Now()
	result := tester.Test(context.Background(), srv.URL)
	elapsed := time.Since(start)

	if result.Success {
		t.Fatalf("expected timeout failure")
	}
	if elapsed > 2*time.Second {
		t.Fatalf("probe was not bounded by its timeout, took %v", elapsed)
	}
}
