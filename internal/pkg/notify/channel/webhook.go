package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/suitx/internal/pkg/notify/auth"
	httpx "github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/log"
)

// WebhookChannel implements generic webhook notification channel
type WebhookChannel struct {
	webhookURL   string
	authProvider auth.IAuthProvider
	client       *httpx.Client
}

// NewWebhookChannel creates a new generic webhook notification channel
func NewWebhookChannel(webhookURL string, timeout time.Duration) *WebhookChannel {
	return &WebhookChannel{
		webhookURL: webhookURL,
		client:     httpx.NewClient(httpx.ClientConfig{Timeout: timeout}),
	}
}

// SetAuth sets authentication provider (supports multiple auth methods)
func (c *WebhookChannel) SetAuth(provider auth.IAuthProvider) error {
	if provider == nil {
		return nil
	}
	c.authProvider = provider
	return provider.Validate()
}

// GetAuth gets the authentication provider
func (c *WebhookChannel) GetAuth() auth.IAuthProvider {
	return c.authProvider
}

// Send posts msg.Payload, or subject and body when no payload is given
func (c *WebhookChannel) Send(ctx context.Context, msg *Message) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if msg == nil {
		return fmt.Errorf("webhook message is nil")
	}

	payload := msg.Payload
	if payload == nil {
		payload = map[string]any{
			"subject": msg.Subject,
			"message": msg.Body,
		}
	}

	headers := map[string]string{}
	if c.authProvider != nil {
		if key, value := c.authProvider.GetAuthHeader(); key != "" && value != "" {
			headers[key] = value
		}
	}

	if _, err := c.client.PostJSON(ctx, c.webhookURL, headers, payload); err != nil {
		log.WithContext(ctx).Warnw("webhook request failed", "url", c.webhookURL, "error", err)
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *WebhookChannel) Validate() error {
	if c.webhookURL == "" {
		return fmt.Errorf("webhook URL is required")
	}
	if c.authProvider != nil {
		return c.authProvider.Validate()
	}
	return nil
}

// Close closes the connection
func (c *WebhookChannel) Close() error {
	return nil
}
