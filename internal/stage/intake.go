// Package stage implements the workflow state machine as one handler per
// queue. Handlers return the insertions that advance the workflow; the queue
// runtime performs them.
package stage

import (
	"context"

	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

// Intake drains the main queue: every externally triggered payload enters the
// controller.
func Intake() queue.HandlerFunc {
	return func(ctx context.Context, p workflow.Payload) ([]queue.Insertion, error) {
		return []queue.Insertion{{
			Queue:   queue.Controller,
			JobName: "start-workflow",
			Payload: p,
		}}, nil
	}
}
