package stage

import (
	"context"
	"fmt"

	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

// Controller is the entry and re-entry state machine for the 7-day cycle.
// Decision order: day ceiling, idempotent terminal guard, then advance into
// channel selection.
func Controller() queue.HandlerFunc {
	return func(ctx context.Context, p workflow.Payload) ([]queue.Insertion, error) {
		if p.CurrentDay >= workflow.MaxDays {
			p.Status = workflow.StatusFailed
			return []queue.Insertion{{
				Queue:   queue.Completion,
				JobName: "timeout-completion",
				Payload: p,
			}}, nil
		}

		// Re-delivered terminal workflows pass straight through; they must
		// never re-enter channel selection.
		if p.Terminal() {
			return []queue.Insertion{{
				Queue:   queue.Completion,
				JobName: "final-completion",
				Payload: p,
			}}, nil
		}

		p.AttemptCount++
		p.Status = workflow.StatusInProgress

		return []queue.Insertion{{
			Queue:   queue.ChannelSelector,
			JobName: fmt.Sprintf("select-channel-day-%d", p.CurrentDay),
			Payload: p,
		}}, nil
	}
}
