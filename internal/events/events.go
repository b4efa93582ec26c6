// Package events is the structured event sink shared by the queue runtime and
// the stage handlers. Events are payload-opaque: they carry job and queue
// identity, never workflow contents.
package events

import (
	"log/slog"
	"sync"
	"time"
)

// Event kinds emitted by the engine.
const (
	KindBoot        = "boot"
	KindHeartbeat   = "heartbeat"
	KindRetry       = "retry"
	KindDeadLetter  = "dlq"
	KindSuccess     = "success"
	KindRedisStatus = "redis_status"
	KindSystemReady = "system_ready"
	KindWebhook     = "webhook"
	KindFatal       = "fatal"
	KindAdapter     = "adapter"
)

// Event is one lifecycle observation.
type Event struct {
	Kind        string
	Queue       string
	JobID       string
	Attempt     int
	MaxAttempts int
	Reason      string
}

// Recorder receives lifecycle events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(Event)
}

// SlogRecorder writes events through a slog.Logger.
type SlogRecorder struct {
	log *slog.Logger
	env string
}

func NewSlogRecorder(log *slog.Logger, env string) *SlogRecorder {
	return &SlogRecorder{log: log, env: env}
}

func (r *SlogRecorder) Record(e Event) {
	attrs := []any{
		slog.String("event", e.Kind),
		slog.String("env", r.env),
		slog.Time("ts", time.Now().UTC()),
	}
	if e.Queue != "" {
		attrs = append(attrs, slog.String("queue", e.Queue))
	}
	if e.JobID != "" {
		attrs = append(attrs, slog.String("job_id", e.JobID))
	}
	if e.MaxAttempts > 0 {
		attrs = append(attrs, slog.Int("attempt", e.Attempt), slog.Int("max_attempts", e.MaxAttempts))
	}
	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", e.Reason))
	}

	switch e.Kind {
	case KindRetry:
		r.log.Warn("job will be retried", attrs...)
	case KindDeadLetter:
		r.log.Error("job exhausted retries, moved to dead-letter queue", attrs...)
	case KindFatal:
		r.log.Error("fatal", attrs...)
	default:
		r.log.Info(e.Kind, attrs...)
	}
}

// Capture accumulates events in memory so tests can assert on them.
type Capture struct {
	mu     sync.Mutex
	events []Event
}

func (c *Capture) Record(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns a snapshot of everything recorded so far.
func (c *Capture) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}
