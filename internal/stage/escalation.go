package stage

import (
	"context"

	"outreach-engine/internal/adapter"
	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

// Escalate handles workflows that ran out of normal channel rules.
// High-priority workflows attempt direct contact through voice then chat;
// everything else emits a best-effort notification and completes as
// escalated. Escalation never lowers priority or reverts status.
func Escalate(notifier adapter.Notifier) queue.HandlerFunc {
	return func(ctx context.Context, p workflow.Payload) ([]queue.Insertion, error) {
		p.Status = workflow.StatusEscalated

		// Direct contact re-enters message building without advancing the
		// day, so an unanswered high-priority workflow keeps cycling through
		// build and parse until a response arrives.
		if p.TierFlags.Priority == workflow.PriorityHigh {
			if p.TierFlags.Has(workflow.ChannelVoice) {
				p.SelectedChannel = workflow.ChannelVoice
				return []queue.Insertion{{
					Queue:   queue.MessageBuilder,
					JobName: "escalation-voice",
					Payload: p,
				}}, nil
			}
			if p.TierFlags.Has(workflow.ChannelChat) {
				p.SelectedChannel = workflow.ChannelChat
				return []queue.Insertion{{
					Queue:   queue.MessageBuilder,
					JobName: "escalation-chat",
					Payload: p,
				}}, nil
			}
		}

		// Best-effort: a failed notice must not fail the workflow.
		_ = notifier.Notify(ctx, adapter.EscalationNotice{
			WorkflowID: p.WorkflowID,
			Region:     string(p.RegionCode),
			Priority:   string(p.TierFlags.Priority),
			Action:     "manual intervention needed",
		})

		return []queue.Insertion{{
			Queue:   queue.Completion,
			JobName: "escalation-completion",
			Payload: p,
		}}, nil
	}
}
