package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"outreach-engine/internal/config"
	"outreach-engine/internal/workflow"
)

const (
	// Consumer group shared by all queue streams.
	consumerGroup = "outreach-workers"

	// Sorted sets holding not-yet-eligible envelopes, scored by eligibility
	// time in unix milliseconds.
	delayedSet = "jobs:delayed"
	retrySet   = "jobs:retry"
)

func streamKey(q Name) string {
	return "queue:" + string(q)
}

// Dial connects the single process-wide Redis client. The caller owns the
// client and passes it to every producer and consumer; a failed ping is fatal
// to the process by contract.
func Dial(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// Broker owns the nine named streams and the delayed/retry sets. It holds no
// workflow state beyond what is embedded in job payloads.
type Broker struct {
	client   *redis.Client
	defaults map[Name]Options
}

func NewBroker(client *redis.Client, defaults map[Name]Options) *Broker {
	return &Broker{client: client, defaults: defaults}
}

func (b *Broker) Client() *redis.Client {
	return b.client
}

// EnsureGroups creates each queue's stream and consumer group if missing.
func (b *Broker) EnsureGroups(ctx context.Context) {
	for _, q := range Stages {
		_ = b.client.XGroupCreateMkStream(ctx, streamKey(q), consumerGroup, "$").Err()
	}
	_ = b.client.XGroupCreateMkStream(ctx, streamKey(DeadLetter), consumerGroup, "$").Err()
}

// options merges per-insertion overrides onto the queue defaults.
func (b *Broker) options(q Name, opts *Options) Options {
	merged := b.defaults[q]
	if opts == nil {
		return merged
	}
	if opts.Attempts > 0 {
		merged.Attempts = opts.Attempts
	}
	if opts.Backoff.Base > 0 {
		merged.Backoff = opts.Backoff
	}
	if opts.Delay > 0 {
		merged.Delay = opts.Delay
	}
	if opts.RetainCompleted > 0 {
		merged.RetainCompleted = opts.RetainCompleted
	}
	if opts.RetainFailed > 0 {
		merged.RetainFailed = opts.RetainFailed
	}
	return merged
}

// Enqueue inserts one job into the named queue. Delayed jobs go to the
// delayed set and are released by the scheduler once eligible; everything
// else is appended to the queue stream directly.
func (b *Broker) Enqueue(ctx context.Context, ins Insertion) (string, error) {
	opts := b.options(ins.Queue, ins.Opts)
	now := time.Now()

	env := Envelope{
		ID:          uuid.NewString(),
		Queue:       ins.Queue,
		Name:        ins.JobName,
		Payload:     ins.Payload,
		Attempt:     0,
		MaxAttempts: opts.Attempts,
		BackoffBase: opts.Backoff.Base.Milliseconds(),
		BackoffCap:  opts.Backoff.Cap.Milliseconds(),
		Retain:      opts.RetainCompleted + opts.RetainFailed,
		CreatedAt:   now.UnixMilli(),
	}
	if opts.Delay > 0 {
		env.ScheduledAt = now.Add(opts.Delay).UnixMilli()
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return "", err
	}

	if env.ScheduledAt > 0 {
		err = b.client.ZAdd(ctx, delayedSet, redis.Z{
			Score:  float64(env.ScheduledAt),
			Member: string(raw),
		}).Err()
		return env.ID, err
	}

	return env.ID, b.append(ctx, env.Queue, env.Retain, string(raw))
}

// append writes a raw envelope onto a queue stream, trimming to the queue's
// bounded retention. The dead-letter stream is never trimmed.
func (b *Broker) append(ctx context.Context, q Name, retain int, raw string) error {
	args := &redis.XAddArgs{
		Stream: streamKey(q),
		Values: map[string]interface{}{"job": raw},
	}
	if q != DeadLetter && retain > 0 {
		args.MaxLen = int64(retain)
		args.Approx = true
	}
	return b.client.XAdd(ctx, args).Err()
}

// ScheduleRetry places env in the retry set, eligible once delay has elapsed.
func (b *Broker) ScheduleRetry(ctx context.Context, env Envelope, delay time.Duration) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.client.ZAdd(ctx, retrySet, redis.Z{
		Score:  float64(time.Now().Add(delay).UnixMilli()),
		Member: string(raw),
	}).Err()
}

// DeadLetters returns every record in the dead-letter queue, oldest first.
func (b *Broker) DeadLetters(ctx context.Context) ([]map[string]string, error) {
	entries, err := b.client.XRange(ctx, streamKey(DeadLetter), "-", "+").Result()
	if err != nil {
		return nil, err
	}
	records := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rec := make(map[string]string, len(e.Values))
		for k, v := range e.Values {
			rec[k] = fmt.Sprint(v)
		}
		records = append(records, rec)
	}
	return records, nil
}

// PushDeadLetter writes an exhausted job's failure record to the dead-letter
// queue. Records are retained indefinitely.
func (b *Broker) PushDeadLetter(ctx context.Context, rec workflow.DeadLetter) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey(DeadLetter),
		Values: map[string]interface{}{"record": string(raw)},
	}).Err()
}
