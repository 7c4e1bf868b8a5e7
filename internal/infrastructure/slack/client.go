// Package slack implements digest delivery over the Slack Web API and
// incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dueminder/internal/ports"
)

const defaultAPIBase = "https://slack.com/api"

// Client talks to the Slack Web API with a bot token. It covers the two
// operations this system consumes: posting a message and opening a direct
// conversation.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

var _ ports.DirectMessenger = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets a 10s timeout default.
func NewClient(token string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{token: token, baseURL: defaultAPIBase, client: client}
}

// PostMessage sends text to a channel or conversation id.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	payload := map[string]string{"channel": channel, "text": text}
	if err := c.call(ctx, "chat.postMessage", payload, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("chat.postMessage failed: %s", resp.Error)
	}
	return nil
}

// OpenConversation resolves a user id to a direct conversation id. The API
// call is idempotent: opening an existing conversation returns the same id.
func (c *Client) OpenConversation(ctx context.Context, userID string) (string, error) {
	var resp struct {
		OK      bool   `json:"ok"`
		Error   string `json:"error"`
		Channel struct {
			ID string `json:"id"`
		} `json:"channel"`
	}
	payload := map[string]string{"users": userID}
	if err := c.call(ctx, "conversations.open", payload, &resp); err != nil {
		return "", err
	}
	if !resp.OK {
		return "", fmt.Errorf("conversations.open failed: %s", resp.Error)
	}
	if resp.Channel.ID == "" {
		return "", fmt.Errorf("conversations.open returned no conversation id for %s", userID)
	}
	return resp.Channel.ID, nil
}

func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return fmt.Errorf("%s status=%d body=%s", method, res.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

// ChannelPoster publishes digests to a fixed channel through the bot API.
type ChannelPoster struct {
	client    *Client
	channelID string
}

var _ ports.ChannelNotifier = (*ChannelPoster)(nil)

// NewChannelPoster binds a client to the shared channel id.
func NewChannelPoster(client *Client, channelID string) *ChannelPoster {
	return &ChannelPoster{client: client, channelID: channelID}
}

// PostDigest sends the digest to the shared channel.
func (p *ChannelPoster) PostDigest(ctx context.Context, digest string) error {
	return p.client.PostMessage(ctx, p.channelID, digest)
}
