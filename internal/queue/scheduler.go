package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"outreach-engine/internal/events"
	"outreach-engine/internal/store"
)

const drainBatch = 10

// StartScheduler releases delayed jobs into their target queue stream once
// their eligibility time has passed. Release order preserves per-queue FIFO
// among jobs with the same eligibility time.
func StartScheduler(ctx context.Context, b *Broker, s *store.Store, rec events.Recorder) {
	go drainLoop(ctx, b, s, rec, delayedSet, store.StatusQueued)
}

func drainLoop(ctx context.Context, b *Broker, s *store.Store, rec events.Recorder, set, status string) {
	client := b.Client()
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}

		now := time.Now().UnixMilli()
		members, err := client.ZRangeByScore(ctx, set, &redis.ZRangeBy{
			Min:   "-inf",
			Max:   fmt.Sprint(now),
			Count: drainBatch,
		}).Result()
		if err != nil && err != redis.Nil {
			rec.Record(events.Event{Kind: events.KindRedisStatus, Reason: set + " scan: " + err.Error()})
			continue
		}

		for _, raw := range members {
			var env Envelope
			if err := json.Unmarshal([]byte(raw), &env); err != nil {
				// Malformed member, drop it so the set keeps draining.
				_ = client.ZRem(ctx, set, raw).Err()
				continue
			}

			if err := b.append(ctx, env.Queue, env.Retain, raw); err != nil {
				rec.Record(events.Event{
					Kind: events.KindRedisStatus, Queue: string(env.Queue), JobID: env.ID,
					Reason: "release failed: " + err.Error(),
				})
				continue
			}
			_ = client.ZRem(ctx, set, raw).Err()

			if env.Attempt < env.MaxAttempts {
				_ = s.SetStatus(ctx, env.ID, status, map[string]interface{}{
					"released_at": time.Now().UnixMilli(),
				})
			}
		}
	}
}
