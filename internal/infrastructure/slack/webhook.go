package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dueminder/internal/ports"
)

// Webhook posts digests to a Slack incoming webhook. Fire-and-forget: any
// 2xx is success, everything else is an error.
type Webhook struct {
	url    string
	client *http.Client
}

var _ ports.ChannelNotifier = (*Webhook)(nil)

// NewWebhook registers the webhook URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// PostDigest sends the digest as a {"text": ...} JSON body.
func (w *Webhook) PostDigest(ctx context.Context, digest string) error {
	if w.url == "" {
		return fmt.Errorf("webhook notifier misconfigured")
	}

	data, err := json.Marshal(map[string]string{"text": digest})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook error: %s", resp.Status)
	}
	return nil
}
