package stage

import (
	"context"
	"fmt"
	"time"

	"outreach-engine/internal/adapter"
	"outreach-engine/internal/bundle"
	"outreach-engine/internal/pacing"
	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

// responseCheckDelay is how long the workflow waits before evaluating a
// customer response.
const responseCheckDelay = time.Hour

// BuilderDeps are the external collaborators of the message builder.
type BuilderDeps struct {
	Bundle  bundle.Provider
	Email   adapter.EmailSender
	Chat    adapter.ChatSender
	Voice   adapter.VoiceCaller
	SMS     adapter.SMSSender
	Sleeper pacing.Sleeper

	ContactEmail string
	ContactPhone string
}

// Builder resolves the template for (day, channel, region), substitutes
// variables, applies human pacing and dispatches through the selected
// channel. It always forwards to the response parser with a fixed evaluation
// delay.
func Builder(deps BuilderDeps) queue.HandlerFunc {
	return func(ctx context.Context, p workflow.Payload) ([]queue.Insertion, error) {
		channel := p.SelectedChannel
		if channel == "" {
			channel = workflow.ChannelEmail
		}

		b := deps.Bundle.Bundle(ctx)

		var body, subject string
		if tmpl, ok := b.FindTemplate(p.CurrentDay, channel, p.RegionCode); ok {
			body = bundle.Fill(tmpl.Body, map[string]string{
				"customerName": "Valued Customer",
				"topic":        "your recent inquiry",
				"workflowId":   p.WorkflowID,
			})
			subject = tmpl.Subject
		} else {
			body = fmt.Sprintf("Follow-up message for workflow %s", p.WorkflowID)
		}
		if subject == "" {
			subject = "Message"
		}

		if err := deps.Sleeper.Sleep(ctx, pacing.InitialMessageDelay()); err != nil {
			return nil, err
		}
		if channel == workflow.ChannelChat {
			if err := deps.Sleeper.Sleep(ctx, pacing.TypingDuration(len(body))); err != nil {
				return nil, err
			}
		}

		if err := dispatch(ctx, deps, channel, subject, body, p); err != nil {
			return nil, err
		}

		p.LastMessageSent = body
		return []queue.Insertion{{
			Queue:   queue.ResponseParser,
			JobName: "check-response",
			Payload: p,
			Opts:    &queue.Options{Delay: responseCheckDelay},
		}}, nil
	}
}

func dispatch(ctx context.Context, deps BuilderDeps, channel workflow.Channel, subject, body string, p workflow.Payload) error {
	switch channel {
	case workflow.ChannelEmail:
		return deps.Email.Send(ctx, deps.ContactEmail, subject, body)
	case workflow.ChannelVoice:
		return deps.Voice.Call(ctx, deps.ContactPhone, body)
	case workflow.ChannelChat:
		return deps.Chat.Send(ctx, body, map[string]string{"workflowId": p.WorkflowID})
	default:
		return deps.SMS.Send(ctx, deps.ContactPhone, body)
	}
}
