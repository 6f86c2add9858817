// Package push implements the outbound push-gateway client. Requests are
// authenticated with a static bearer credential from configuration.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/notehub/core/internal/infrastructure/config"
	"github.com/notehub/core/internal/ports"
)

type notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type message struct {
	Topic        string       `json:"topic"`
	Notification notification `json:"notification"`
}

type sendMessageRequest struct {
	Message message `json:"message"`
}

var _ ports.PushSender = (*Client)(nil)

// Client sends messages through a cloud messaging gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	project    string
	token      string
}

// NewClient creates a new push gateway client
func NewClient(cfg config.PushConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		project:    cfg.Project,
		token:      cfg.Token,
	}
}

// Send delivers one notification to a topic. On a non-2xx reply the
// returned error carries the gateway's response body so callers can log
// it.
func (c *Client) Send(ctx context.Context, topic, title, body string) error {
	payload, err := json.Marshal(sendMessageRequest{
		Message: message{
			Topic:        topic,
			Notification: notification{Title: title, Body: body},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages:send", c.baseURL, c.project)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
