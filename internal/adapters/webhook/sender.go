// Package webhook implements the WebhookSender secondary port: one POST
// per notification, no retries.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

const maxResponseBytes = 64 << 10

// Sender delivers JSON payloads to a fixed endpoint.
type Sender struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSender creates a webhook sender for the given endpoint URL.
func NewSender(url string, logger *zap.Logger) *Sender {
	return &Sender{
		url:        url,
		httpClient: &http.Client{Timeout: sendTimeout},
		logger:     logger,
	}
}

// Send POSTs the payload and classifies the outcome: any 2xx status is
// success, everything else - bad status, transport error, marshal error -
// is failure. No error crosses this boundary; failures are logged with
// status and body.
func (s *Sender) Send(ctx context.Context, payload any) bool {
	if s.url == "" {
		s.logger.Error("webhook url is not configured")
		return false
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal webhook payload", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		s.logger.Error("failed to build webhook request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("webhook delivery failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.logger.Info("webhook delivered", zap.Int("status", resp.StatusCode))
		return true
	}

	s.logger.Error("webhook rejected",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", respBody))
	return false
}
