package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// WebhookNotifier posts notifications as JSON to a configured webhook URL.
// Delivery failures are logged and swallowed: a broken webhook must never
// break the call that produced the notification.
type WebhookNotifier struct {
	webhookURL string
	logger     zerolog.Logger
	httpClient *http.Client
}

// webhookPayload is the wire shape posted to the webhook.
type webhookPayload struct {
	Severity   string `json:"severity"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	AutoHide   bool   `json:"auto_hide"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// NewWebhookNotifier creates a webhook notifier. The URL is validated once at
// construction.
func NewWebhookNotifier(webhookURL string, logger zerolog.Logger, httpClient *http.Client) (*WebhookNotifier, error) {
	moduleLogger := logger.With().Str("component", "WebhookNotifier").Logger()

	if _, err := url.ParseRequestURI(webhookURL); err != nil {
		return nil, fmt.Errorf("invalid webhook URL: %w", err)
	}

	if httpClient == nil {
		moduleLogger.Warn().Msg("HTTP client is nil, using default HTTP client with 20s timeout")
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	return &WebhookNotifier{
		webhookURL: webhookURL,
		logger:     moduleLogger,
		httpClient: httpClient,
	}, nil
}

// Notify posts the notification to the webhook.
func (wn *WebhookNotifier) Notify(ctx context.Context, n Notification) {
	payload := webhookPayload{
		Severity:   n.Severity,
		Title:      n.Title,
		Message:    n.Message,
		AutoHide:   n.AutoHide,
		DurationMs: n.Duration.Milliseconds(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		wn.logger.Error().Err(err).Msg("Failed to marshal notification payload")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.webhookURL, bytes.NewReader(body))
	if err != nil {
		wn.logger.Error().Err(err).Msg("Failed to create webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := wn.httpClient.Do(req)
	if err != nil {
		wn.logger.Error().Err(err).Msg("Failed to deliver webhook notification")
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		wn.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("title", n.Title).
			Msg("Webhook rejected notification")
		return
	}

	wn.logger.Debug().Str("title", n.Title).Msg("Notification delivered to webhook")
}
