package queue

import (
	"time"

	"outreach-engine/internal/workflow"
)

// Name identifies one of the nine durable queues.
type Name string

const (
	Main            Name = "main-queue"
	Controller      Name = "controller-queue"
	ChannelSelector Name = "channel-selector-queue"
	MessageBuilder  Name = "message-builder-queue"
	FollowUp        Name = "follow-up-queue"
	ResponseParser  Name = "response-parser-queue"
	Escalation      Name = "escalation-queue"
	Completion      Name = "completion-queue"
	DeadLetter      Name = "dead-letter-queue"
)

// Stages lists every queue served by a handler. DeadLetter is write-only.
var Stages = []Name{
	Main, Controller, ChannelSelector, MessageBuilder,
	FollowUp, ResponseParser, Escalation, Completion,
}

// Backoff describes the retry delay policy for a job.
type Backoff struct {
	Type string        `json:"type"`
	Base time.Duration `json:"base"`
	Cap  time.Duration `json:"cap"`
}

// Options are per-insertion overrides over a queue's defaults.
type Options struct {
	Attempts        int           `json:"attempts"`
	Backoff         Backoff       `json:"backoff"`
	Delay           time.Duration `json:"delay,omitempty"`
	RetainCompleted int           `json:"retain_completed"`
	RetainFailed    int           `json:"retain_failed"`
}

// Insertion is a stage handler's output: one enqueue into a target queue.
// A nil Opts means the target queue's defaults apply.
type Insertion struct {
	Queue   Name
	JobName string
	Payload workflow.Payload
	Opts    *Options
}

// Envelope wraps a payload snapshot for the broker. Immutable once enqueued
// except Attempt, which the runtime bumps on each failed execution.
type Envelope struct {
	ID          string           `json:"id"`
	Queue       Name             `json:"queue"`
	Name        string           `json:"name"`
	Payload     workflow.Payload `json:"payload"`
	Attempt     int              `json:"attempt"`
	MaxAttempts int              `json:"max_attempts"`
	BackoffBase int64            `json:"backoff_base_ms"`
	BackoffCap  int64            `json:"backoff_cap_ms"`
	// Retain folds the completed and failed retention budgets into a single
	// trim bound; one stream holds jobs of both outcomes.
	Retain      int              `json:"retain"`
	CreatedAt   int64            `json:"created_at"`
	ScheduledAt int64            `json:"scheduled_at,omitempty"`
}

// Defaults returns the per-queue default options. The dead-letter queue is
// never retried and never pruned.
func Defaults(attempts int, base, cap time.Duration) map[Name]Options {
	std := Options{
		Attempts:        attempts,
		Backoff:         Backoff{Type: "exponential", Base: base, Cap: cap},
		RetainCompleted: 100,
		RetainFailed:    500,
	}
	d := make(map[Name]Options, len(Stages)+1)
	for _, q := range Stages {
		d[q] = std
	}
	d[DeadLetter] = Options{Attempts: 1, Backoff: std.Backoff}
	return d
}
