package adapter

import (
	"context"

	"outreach-engine/internal/events"
)

// Mock adapters are wired when the engine runs outside production. They
// record an opaque adapter event instead of sending anything.

type MockEmail struct{ Rec events.Recorder }

func (m MockEmail) Send(ctx context.Context, to, subject, body string) error {
	m.Rec.Record(events.Event{Kind: events.KindAdapter, Reason: "mock email sent"})
	return nil
}

type MockChat struct{ Rec events.Recorder }

func (m MockChat) Send(ctx context.Context, message string, meta map[string]string) error {
	m.Rec.Record(events.Event{Kind: events.KindAdapter, Reason: "mock chat sent"})
	return nil
}

type MockVoice struct{ Rec events.Recorder }

func (m MockVoice) Call(ctx context.Context, to, message string) error {
	m.Rec.Record(events.Event{Kind: events.KindAdapter, Reason: "mock voice call placed"})
	return nil
}

type MockSMS struct{ Rec events.Recorder }

func (m MockSMS) Send(ctx context.Context, to, body string) error {
	m.Rec.Record(events.Event{Kind: events.KindAdapter, Reason: "mock sms sent"})
	return nil
}

type MockNotifier struct{ Rec events.Recorder }

func (m MockNotifier) Notify(ctx context.Context, n EscalationNotice) error {
	m.Rec.Record(events.Event{Kind: events.KindAdapter, Reason: "mock escalation notice for " + n.WorkflowID})
	return nil
}
