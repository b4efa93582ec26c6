package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"outreach-engine/internal/events"
	"outreach-engine/internal/store"
	"outreach-engine/internal/workflow"
)

// HandlerFunc implements one state transition: given a payload snapshot it
// returns the queue insertions that advance the workflow. The runtime
// performs the insertions; a returned error makes the whole job retryable.
type HandlerFunc func(ctx context.Context, p workflow.Payload) ([]Insertion, error)

const (
	readBlock      = 5 * time.Second
	heartbeatEvery = 60 * time.Second
)

// jobSink is the broker write surface the runtime uses to settle a job.
type jobSink interface {
	Enqueue(ctx context.Context, ins Insertion) (string, error)
	ScheduleRetry(ctx context.Context, env Envelope, delay time.Duration) error
	PushDeadLetter(ctx context.Context, rec workflow.DeadLetter) error
}

// statusRecorder is the slice of the job store the runtime writes.
type statusRecorder interface {
	SetStatus(ctx context.Context, jobID, status string, fields map[string]interface{}) error
}

// Runtime binds handler functions to queues and runs them under bounded
// concurrency with retry, backoff and dead-letter semantics. Lifecycle logs
// are payload-opaque.
type Runtime struct {
	broker      *Broker
	sink        jobSink
	store       statusRecorder
	rec         events.Recorder
	concurrency int

	// onFatal runs when the broker connection is lost; the runtime has no
	// standalone-degraded mode.
	onFatal func(reason string)
}

func NewRuntime(b *Broker, s *store.Store, rec events.Recorder, concurrency int) *Runtime {
	if concurrency <= 0 {
		concurrency = 5
	}
	return &Runtime{
		broker:      b,
		sink:        b,
		store:       s,
		rec:         rec,
		concurrency: concurrency,
		onFatal: func(reason string) {
			os.Exit(1)
		},
	}
}

// Bind attaches h to queue q and starts the worker pool plus a liveness
// heartbeat for the queue.
func (r *Runtime) Bind(ctx context.Context, q Name, consumer string, h HandlerFunc) {
	r.rec.Record(events.Event{Kind: events.KindBoot, Queue: string(q)})

	go r.heartbeat(ctx, q)
	for i := 0; i < r.concurrency; i++ {
		go r.run(ctx, q, fmt.Sprintf("%s-%d", consumer, i), h)
	}
}

func (r *Runtime) heartbeat(ctx context.Context, q Name) {
	t := time.NewTicker(heartbeatEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.rec.Record(events.Event{Kind: events.KindHeartbeat, Queue: string(q)})
		}
	}
}

func (r *Runtime) run(ctx context.Context, q Name, consumer string, h HandlerFunc) {
	client := r.broker.Client()
	for {
		if ctx.Err() != nil {
			return
		}
		entries, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: consumer,
			Streams:  []string{streamKey(q), ">"},
			Block:    readBlock,
			Count:    1,
		}).Result()

		if err != nil && err != redis.Nil {
			if ctx.Err() != nil {
				return
			}
			// Distinguish an idle read timeout from a lost broker.
			if pingErr := client.Ping(ctx).Err(); pingErr != nil {
				r.rec.Record(events.Event{
					Kind:   events.KindFatal,
					Queue:  string(q),
					Reason: "redis connection lost: " + pingErr.Error(),
				})
				r.onFatal(pingErr.Error())
				return
			}
			continue
		}

		for _, stream := range entries {
			for _, msg := range stream.Messages {
				r.process(ctx, q, msg, h)
			}
		}
	}
}

func (r *Runtime) process(ctx context.Context, q Name, msg redis.XMessage, h HandlerFunc) {
	client := r.broker.Client()
	defer func() {
		_ = client.XAck(ctx, streamKey(q), consumerGroup, msg.ID).Err()
	}()

	raw, ok := msg.Values["job"].(string)
	if !ok {
		return
	}
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return
	}
	r.execute(ctx, env, h)
}

// execute runs the handler and settles the job: success, retry after backoff,
// or dead-letter once the attempt budget is spent. A failed insertion counts
// as a handler failure.
func (r *Runtime) execute(ctx context.Context, env Envelope, h HandlerFunc) {
	_ = r.store.SetStatus(ctx, env.ID, store.StatusProcessing, map[string]interface{}{
		"queue":    string(env.Queue),
		"attempts": env.Attempt,
	})

	insertions, err := h(ctx, env.Payload)
	if err == nil {
		for _, ins := range insertions {
			if _, enqErr := r.sink.Enqueue(ctx, ins); enqErr != nil {
				err = enqErr
				break
			}
		}
	}

	if err == nil {
		r.rec.Record(events.Event{Kind: events.KindSuccess, Queue: string(env.Queue), JobID: env.ID})
		_ = r.store.SetStatus(ctx, env.ID, store.StatusSucceeded, map[string]interface{}{
			"attempts": env.Attempt,
		})
		return
	}

	env.Attempt++
	if env.Attempt < env.MaxAttempts {
		r.retryLater(ctx, env, err)
		return
	}
	r.deadLetter(ctx, env, err)
}

// retryLater reschedules the job after min(attempt*base, cap).
func (r *Runtime) retryLater(ctx context.Context, env Envelope, cause error) {
	delay := RetryDelay(env.Attempt,
		time.Duration(env.BackoffBase)*time.Millisecond,
		time.Duration(env.BackoffCap)*time.Millisecond)

	if err := r.sink.ScheduleRetry(ctx, env, delay); err != nil {
		r.rec.Record(events.Event{
			Kind: events.KindFatal, Queue: string(env.Queue), JobID: env.ID,
			Reason: "retry schedule failed: " + err.Error(),
		})
		return
	}

	r.rec.Record(events.Event{
		Kind:        events.KindRetry,
		Queue:       string(env.Queue),
		JobID:       env.ID,
		Attempt:     env.Attempt,
		MaxAttempts: env.MaxAttempts,
		Reason:      cause.Error(),
	})
	_ = r.store.SetStatus(ctx, env.ID, store.StatusRetrying, map[string]interface{}{
		"last_error": cause.Error(),
		"attempts":   env.Attempt,
	})
}

// deadLetter moves an exhausted job to the dead-letter queue exactly once,
// with full failure context.
func (r *Runtime) deadLetter(ctx context.Context, env Envelope, cause error) {
	rec := workflow.DeadLetter{
		Payload:  env.Payload,
		Error:    cause.Error(),
		FailedAt: time.Now().UTC(),
		Attempts: env.Attempt,
		Queue:    string(env.Queue),
	}
	rec.Status = workflow.StatusFailed

	if err := r.sink.PushDeadLetter(ctx, rec); err != nil {
		r.rec.Record(events.Event{
			Kind: events.KindFatal, Queue: string(env.Queue), JobID: env.ID,
			Reason: "dead-letter push failed: " + err.Error(),
		})
		return
	}

	r.rec.Record(events.Event{
		Kind:        events.KindDeadLetter,
		Queue:       string(env.Queue),
		JobID:       env.ID,
		Attempt:     env.Attempt,
		MaxAttempts: env.MaxAttempts,
		Reason:      cause.Error(),
	})
	_ = r.store.SetStatus(ctx, env.ID, store.StatusFailed, map[string]interface{}{
		"last_error": cause.Error(),
		"attempts":   env.Attempt,
	})
}
