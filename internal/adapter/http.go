package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const httpTimeout = 30 * time.Second

// postJSON sends a JSON body and treats any non-2xx status as an error.
func postJSON(ctx context.Context, client *http.Client, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http request to %s failed: %s", url, resp.Status)
	}
	return nil
}

// HTTPChat delivers chat messages to a chat gateway webhook.
type HTTPChat struct {
	client *http.Client
	url    string
}

func NewHTTPChat(url string) *HTTPChat {
	return &HTTPChat{client: &http.Client{Timeout: httpTimeout}, url: url}
}

func (c *HTTPChat) Send(ctx context.Context, message string, meta map[string]string) error {
	body := map[string]interface{}{
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		body[k] = v
	}
	return postJSON(ctx, c.client, c.url, body)
}

// HTTPWebhook posts opaque payloads, used for the completion outcome.
type HTTPWebhook struct {
	client *http.Client
}

func NewHTTPWebhook() *HTTPWebhook {
	return &HTTPWebhook{client: &http.Client{Timeout: httpTimeout}}
}

func (w *HTTPWebhook) Send(ctx context.Context, url string, payload interface{}) error {
	return postJSON(ctx, w.client, url, payload)
}

// HTTPNotifier posts escalation notices to an internal endpoint.
type HTTPNotifier struct {
	client *http.Client
	url    string
}

func NewHTTPNotifier(url string) *HTTPNotifier {
	return &HTTPNotifier{client: &http.Client{Timeout: httpTimeout}, url: url}
}

func (n *HTTPNotifier) Notify(ctx context.Context, notice EscalationNotice) error {
	return postJSON(ctx, n.client, n.url, notice)
}
