package adapter

import (
	"context"
	"net/http"
)

// VoiceGateway drives a telephony gateway over its HTTP API. The gateway
// speaks the message on calls and delivers plain texts for SMS.
type VoiceGateway struct {
	client  *http.Client
	baseURL string
	from    string
}

func NewVoiceGateway(baseURL, from string) *VoiceGateway {
	return &VoiceGateway{
		client:  &http.Client{Timeout: httpTimeout},
		baseURL: baseURL,
		from:    from,
	}
}

func (g *VoiceGateway) Call(ctx context.Context, to, message string) error {
	return postJSON(ctx, g.client, g.baseURL+"/calls", map[string]string{
		"to":      to,
		"from":    g.from,
		"message": message,
	})
}

func (g *VoiceGateway) Send(ctx context.Context, to, body string) error {
	return postJSON(ctx, g.client, g.baseURL+"/messages", map[string]string{
		"to":   to,
		"from": g.from,
		"body": body,
	})
}
