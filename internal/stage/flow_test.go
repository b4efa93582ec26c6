package stage

import (
	"context"
	"testing"
	"time"

	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

// runOne executes a handler and requires exactly one insertion.
func runOne(t *testing.T, h queue.HandlerFunc, p workflow.Payload) queue.Insertion {
	t.Helper()
	ins, err := h(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 1 {
		t.Fatalf("want exactly one insertion, got %d", len(ins))
	}
	return ins[0]
}

func TestDayZeroCycle(t *testing.T) {
	email := &fakeEmail{}
	start := time.Now().UTC()

	p := workflow.Payload{
		WorkflowID: "wf-e2e",
		RegionCode: workflow.RegionUS,
		TierFlags:  flags(workflow.PriorityHigh, workflow.ChannelEmail, workflow.ChannelVoice),
		StartedAt:  start,
		Status:     workflow.StatusPending,
	}

	ins := runOne(t, Intake(), p)
	if ins.Queue != queue.Controller {
		t.Fatalf("intake routed to %s", ins.Queue)
	}

	ins = runOne(t, Controller(), ins.Payload)
	if ins.Queue != queue.ChannelSelector {
		t.Fatalf("controller routed to %s", ins.Queue)
	}

	ins = runOne(t, Selector(), ins.Payload)
	if ins.Queue != queue.MessageBuilder {
		t.Fatalf("selector routed to %s", ins.Queue)
	}
	if ins.Payload.SelectedChannel != workflow.ChannelEmail {
		t.Fatalf("day 0 channel = %s, want email", ins.Payload.SelectedChannel)
	}

	ins = runOne(t, Builder(builderDeps(email, &fakeChat{}, &fakeVoice{})), ins.Payload)
	if ins.Queue != queue.ResponseParser {
		t.Fatalf("builder routed to %s", ins.Queue)
	}
	if email.subject != "Initial Contact" {
		t.Errorf("sent with subject %q, want the day-0/email/US template", email.subject)
	}

	// No response after the evaluation delay.
	ins = runOne(t, Parser(defaultBundle()), ins.Payload)
	if ins.Queue != queue.FollowUp {
		t.Fatalf("parser routed to %s", ins.Queue)
	}
	if ins.Payload.CurrentDay != 1 {
		t.Fatalf("follow-up day = %d, want 1", ins.Payload.CurrentDay)
	}

	ins = runOne(t, FollowUp(func() time.Time { return start }), ins.Payload)
	if ins.Queue != queue.Controller {
		t.Fatalf("follow-up routed to %s", ins.Queue)
	}
	if ins.Opts.Delay != 24*time.Hour {
		t.Errorf("day-1 re-entry delay = %v, want 24h from start", ins.Opts.Delay)
	}
}

func TestDayFourEscalationCycle(t *testing.T) {
	voice := &fakeVoice{}

	p := workflow.Payload{
		WorkflowID: "wf-e2e",
		RegionCode: workflow.RegionUS,
		TierFlags:  flags(workflow.PriorityHigh, workflow.ChannelEmail, workflow.ChannelVoice),
		StartedAt:  time.Now().UTC(),
		CurrentDay: 4,
		Status:     workflow.StatusInProgress,
	}

	ins := runOne(t, Controller(), p)
	ins = runOne(t, Selector(), ins.Payload)
	if ins.Payload.SelectedChannel != workflow.ChannelVoice {
		t.Fatalf("day 4 channel = %s, want non-email alternative", ins.Payload.SelectedChannel)
	}

	ins = runOne(t, Builder(builderDeps(&fakeEmail{}, &fakeChat{}, voice)), ins.Payload)
	if voice.message == "" {
		t.Fatal("voice call not placed")
	}

	// Still no response at day 4: escalate.
	ins = runOne(t, Parser(defaultBundle()), ins.Payload)
	if ins.Queue != queue.Escalation {
		t.Fatalf("parser routed to %s, want escalation", ins.Queue)
	}

	ins = runOne(t, Escalate(&fakeNotifier{}), ins.Payload)
	if ins.Queue != queue.MessageBuilder {
		t.Fatalf("escalation routed to %s, want message builder", ins.Queue)
	}
	if ins.Payload.SelectedChannel != workflow.ChannelVoice {
		t.Errorf("escalation channel = %s, want voice", ins.Payload.SelectedChannel)
	}
	if ins.Payload.Status != workflow.StatusEscalated {
		t.Errorf("status = %s, want escalated", ins.Payload.Status)
	}
	if ins.JobName != "escalation-voice" {
		t.Errorf("job name = %q", ins.JobName)
	}
}

func TestCompletedWorkflowRedelivery(t *testing.T) {
	p := basePayload()
	p.CurrentDay = 3
	p.Status = workflow.StatusCompleted

	ins, err := Controller()(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 1 {
		t.Fatalf("want exactly one insertion, got %d", len(ins))
	}
	if ins[0].Queue != queue.Completion {
		t.Fatalf("re-delivered terminal workflow routed to %s", ins[0].Queue)
	}
}
