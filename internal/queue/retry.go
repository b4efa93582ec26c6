package queue

import (
	"context"

	"outreach-engine/internal/events"
	"outreach-engine/internal/store"
)

// StartRetryManager re-enqueues failed jobs whose backoff delay has elapsed.
// It shares the drain loop with the scheduler; only the source set differs.
func StartRetryManager(ctx context.Context, b *Broker, s *store.Store, rec events.Recorder) {
	go drainLoop(ctx, b, s, rec, retrySet, store.StatusQueued)
}
