// Package notify sends webhook notifications for acquisition events, so a
// long-running find can report success without anyone watching the terminal.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tmeurs/lambdahunt/internal/logging"
)

// Event identifies what happened.
type Event string

const (
	// EventAcquired is sent when an instance was launched and activated.
	EventAcquired Event = "instance_acquired"

	// EventTerminated is sent when an instance was terminated.
	EventTerminated Event = "instance_terminated"
)

// Payload is the JSON body posted to the webhook URL.
type Payload struct {
	Event        Event  `json:"event"`
	InstanceID   string `json:"instance_id,omitempty"`
	InstanceType string `json:"instance_type,omitempty"`
	Region       string `json:"region,omitempty"`
	IP           string `json:"ip,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// WebhookClient posts notifications to a configured webhook URL.
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
	logger     *logging.Logger
}

// WebhookOption is a functional option for configuring WebhookClient.
type WebhookOption func(*WebhookClient)

// WithHTTPClient sets a custom HTTP client for the webhook client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(wc *WebhookClient) {
		wc.httpClient = client
	}
}

// NewWebhookClient creates a new WebhookClient with the given webhook URL.
// Returns nil if webhookURL is empty (notifications are silently skipped).
func NewWebhookClient(webhookURL string, opts ...WebhookOption) *WebhookClient {
	if webhookURL == "" {
		return nil
	}

	wc := &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logging.Get(),
	}

	for _, opt := range opts {
		opt(wc)
	}

	return wc
}

// Send posts a notification to the configured webhook URL. Safe to call on
// a nil client. Failures are logged and returned but never abort the flow
// that triggered them.
func (wc *WebhookClient) Send(ctx context.Context, payload Payload) error {
	if wc == nil || wc.webhookURL == "" {
		return nil
	}

	payload.Timestamp = time.Now().UTC().Format(time.RFC3339)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		wc.logger.Error().
			Err(err).
			Str("event", string(payload.Event)).
			Msg("Failed to marshal webhook payload")
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wc.webhookURL, bytes.NewReader(jsonData))
	if err != nil {
		wc.logger.Error().
			Err(err).
			Str("url", wc.webhookURL).
			Msg("Failed to create webhook request")
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := wc.httpClient.Do(req)
	if err != nil {
		wc.logger.Warn().
			Err(err).
			Str("url", wc.webhookURL).
			Msg("Webhook delivery failed")
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		wc.logger.Warn().
			Int("status", resp.StatusCode).
			Str("url", wc.webhookURL).
			Msg("Webhook returned error status")
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}

	wc.logger.Debug().
		Str("event", string(payload.Event)).
		Msg("Webhook notification sent")
	return nil
}
