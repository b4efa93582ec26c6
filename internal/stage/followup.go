package stage

import (
	"context"
	"fmt"
	"time"

	"outreach-engine/internal/pacing"
	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

// FollowUp schedules the controller re-entry for the day carried by the
// payload (the response parser already advanced it). Scheduled days anchor
// on the workflow start time; the rest use the randomized follow-up window.
// Payloads past the day ceiling are dropped without enqueuing.
func FollowUp(now func() time.Time) queue.HandlerFunc {
	return func(ctx context.Context, p workflow.Payload) ([]queue.Insertion, error) {
		if p.CurrentDay > workflow.MaxDays {
			return nil, nil
		}

		delay := pacing.NextAdvanceDelay(p.CurrentDay, p.StartedAt, now())

		return []queue.Insertion{{
			Queue:   queue.Controller,
			JobName: fmt.Sprintf("followup-day-%d", p.CurrentDay),
			Payload: p,
			Opts:    &queue.Options{Delay: delay},
		}}, nil
	}
}
