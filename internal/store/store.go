// Package store keeps per-job status records as Redis hashes. It is an
// operational inspection surface, not workflow state: all workflow state
// rides inside job payloads.
package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Job status values recorded over a job's life.
const (
	StatusQueued     = "queued"
	StatusScheduled  = "scheduled"
	StatusProcessing = "processing"
	StatusRetrying   = "retrying"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
)

// terminalTTL bounds retention of finished job records. Dead-letter records
// live in the dead-letter stream and are never expired.
const terminalTTL = 24 * time.Hour

type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) SetStatus(ctx context.Context, jobID, status string, fields map[string]interface{}) error {
	key := "job:" + jobID

	data := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UnixMilli(),
	}
	for k, v := range fields {
		data[k] = v
	}

	if err := s.rdb.HSet(ctx, key, data).Err(); err != nil {
		return err
	}
	if status == StatusSucceeded || status == StatusFailed {
		return s.rdb.Expire(ctx, key, terminalTTL).Err()
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, jobID string) (map[string]string, error) {
	return s.rdb.HGetAll(ctx, "job:"+jobID).Result()
}
