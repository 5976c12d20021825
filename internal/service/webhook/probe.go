// internal/service/webhook/probe.go
package webhook

import (
	"context"
	"fmt"
	"time"

	"leadflow-service/internal/domain/webhook"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Tester probes a configured webhook URL with a synthetic inbound payload.
// It is stateless: nothing is persisted, the result is operator feedback
// only. The outbound request carries its own bounded timeout so a hanging
// target cannot wedge the settings screen.
type Tester struct {
	client *resty.Client
	logger *zap.Logger
}

func NewTester(timeout time.Duration, logger *zap.Logger) *Tester {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Tester{client: client, logger: logger}
}

// Test POSTs a synthetic message to url and measures wall-clock latency up
// to response headers. Network failures are reported in the result, never
// returned as an error.
func (t *Tester) Test(ctx context.Context, url string) *webhook.TestResult {
	payload := webhook.InboundPayload{
		Test:      true,
		From:      "test",
		FromName:  "Test Connection",
		Message:   "This is a test message from the dashboard",
		Timestamp: time.Now().UnixMilli(),
	}

	start := time.Now()
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(url)
	elapsed := time.Since(start)

	if err != nil {
		t.logger.Warn("webhook probe failed", zap.String("url", url), zap.Error(err))
		return &webhook.TestResult{
			Success:        false,
			ResponseTimeMs: elapsed.Milliseconds(),
			Message:        err.Error(),
		}
	}

	success := resp.StatusCode() >= 200 && resp.StatusCode() < 300

	message := "Webhook está respondendo corretamente"
	if !success {
		message = fmt.Sprintf("Webhook retornou status %d", resp.StatusCode())
	}

	t.logger.Info("webhook probe finished",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()),
		zap.Int64("latency_ms", elapsed.Milliseconds()),
		zap.Bool("success", success),
	)

	return &webhook.TestResult{
		Success:        success,
		StatusCode:     resp.StatusCode(),
		ResponseTimeMs: elapsed.Milliseconds(),
		Message:        message,
	}
}
