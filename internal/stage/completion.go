package stage

import (
	"context"
	"time"

	"outreach-engine/internal/adapter"
	"outreach-engine/internal/events"
	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

// OutcomePayload is the terminal report delivered to the outcome webhook.
// The engine treats it as content to transmit, not to interpret.
type OutcomePayload struct {
	WorkflowID  string          `json:"workflowId"`
	Status      workflow.Status `json:"status"`
	CompletedAt string          `json:"completedAt"`
	TotalDays   int             `json:"totalDays"`
	Outcome     string          `json:"outcome"`
	Metadata    OutcomeMetadata `json:"metadata"`
}

type OutcomeMetadata struct {
	FinalDay    int  `json:"finalDay"`
	HasResponse bool `json:"hasResponse"`
}

// ClassifyOutcome maps the final status and response presence onto a coarse
// outcome label.
func ClassifyOutcome(status workflow.Status, hasResponse bool) string {
	switch {
	case status == workflow.StatusCompleted && hasResponse:
		return "success"
	case status == workflow.StatusFailed && hasResponse:
		return "declined"
	case status == workflow.StatusFailed:
		return "timeout"
	default:
		return "unknown"
	}
}

// BuildOutcome assembles the webhook payload for a finished workflow.
func BuildOutcome(p workflow.Payload, at time.Time) OutcomePayload {
	status := p.Status
	if status == "" {
		status = workflow.StatusCompleted
	}
	return OutcomePayload{
		WorkflowID:  p.WorkflowID,
		Status:      status,
		CompletedAt: at.UTC().Format(time.RFC3339),
		TotalDays:   p.CurrentDay,
		Outcome:     ClassifyOutcome(status, p.CustomerResponse != ""),
		Metadata: OutcomeMetadata{
			FinalDay:    p.CurrentDay,
			HasResponse: p.CustomerResponse != "",
		},
	}
}

// Complete dispatches the outcome webhook. A failed dispatch propagates as a
// handler error and rides the normal retry and dead-letter policy.
func Complete(webhook adapter.WebhookSender, url string, rec events.Recorder, now func() time.Time) queue.HandlerFunc {
	return func(ctx context.Context, p workflow.Payload) ([]queue.Insertion, error) {
		outcome := BuildOutcome(p, now())

		if err := webhook.Send(ctx, url, outcome); err != nil {
			rec.Record(events.Event{
				Kind:   events.KindWebhook,
				Queue:  string(queue.Completion),
				Reason: "dispatch failed: " + err.Error(),
			})
			return nil, err
		}

		rec.Record(events.Event{
			Kind:  events.KindWebhook,
			Queue: string(queue.Completion),
		})
		return nil, nil
	}
}
