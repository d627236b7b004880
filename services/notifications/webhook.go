package notifications

import (
	"context"
	"fmt"
	"learnhub/services/events"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookChannel POSTs every event as JSON to an external endpoint.
type WebhookChannel struct {
	client *resty.Client
	url    string
}

func NewWebhookChannel(url string) *WebhookChannel {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")
	return &WebhookChannel{client: client, url: url}
}

func (c *WebhookChannel) Name() string { return "webhook" }

func (c *WebhookChannel) Wants(events.Type) bool { return true }

func (c *WebhookChannel) Send(ctx context.Context, n Notification) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(n.Event).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
