// Package adapter holds the outbound transports. The engine treats every
// adapter as fire-and-forget: an error return is the only failure signal and
// makes the calling job retryable.
package adapter

import "context"

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type ChatSender interface {
	Send(ctx context.Context, message string, meta map[string]string) error
}

type VoiceCaller interface {
	Call(ctx context.Context, to, message string) error
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

type WebhookSender interface {
	Send(ctx context.Context, url string, payload interface{}) error
}

// EscalationNotice is the opaque notification emitted when a workflow
// escalates without a direct-contact channel.
type EscalationNotice struct {
	WorkflowID string `json:"workflowId"`
	Region     string `json:"region"`
	Priority   string `json:"priority"`
	Action     string `json:"action"`
}

type Notifier interface {
	Notify(ctx context.Context, n EscalationNotice) error
}
