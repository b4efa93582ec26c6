package stage

import (
	"context"
	"testing"

	"outreach-engine/internal/bundle"
	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

func defaultBundle() bundle.Provider {
	return bundle.Static{B: bundle.Default()}
}

func TestParserSuccessKeyword(t *testing.T) {
	h := Parser(defaultBundle())

	for _, response := range []string{"yes", "  YES please  ", "ok, sounds good", "I am interested"} {
		p := basePayload()
		p.CurrentDay = 2
		p.CustomerResponse = response

		ins, err := h(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if len(ins) != 1 || ins[0].Queue != queue.Completion {
			t.Fatalf("%q: want completion insertion, got %+v", response, ins)
		}
		if ins[0].Payload.Status != workflow.StatusCompleted {
			t.Errorf("%q: status = %s, want completed", response, ins[0].Payload.Status)
		}
	}
}

func TestParserFailureKeyword(t *testing.T) {
	h := Parser(defaultBundle())

	for _, response := range []string{"stop", "please UNSUBSCRIBE me", "cancel it"} {
		p := basePayload()
		p.CurrentDay = 2
		p.CustomerResponse = response

		ins, err := h(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if len(ins) != 1 || ins[0].Queue != queue.Completion {
			t.Fatalf("%q: want completion insertion, got %+v", response, ins)
		}
		if ins[0].Payload.Status != workflow.StatusFailed {
			t.Errorf("%q: status = %s, want failed", response, ins[0].Payload.Status)
		}
	}
}

func TestParserSuccessBeatsFailure(t *testing.T) {
	h := Parser(defaultBundle())
	p := basePayload()
	p.CustomerResponse = "yes, but stop emailing me"

	ins, err := h(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if ins[0].Payload.Status != workflow.StatusCompleted {
		t.Errorf("status = %s, success keywords are checked first", ins[0].Payload.Status)
	}
}

func TestParserAmbiguousAdvancesDay(t *testing.T) {
	h := Parser(defaultBundle())
	p := basePayload()
	p.CurrentDay = 3
	p.CustomerResponse = "maybe later"

	ins, err := h(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 1 || ins[0].Queue != queue.FollowUp {
		t.Fatalf("want follow-up insertion, got %+v", ins)
	}
	if ins[0].Payload.CurrentDay != 4 {
		t.Errorf("currentDay = %d, want 4", ins[0].Payload.CurrentDay)
	}
}

func TestParserAmbiguousAtCeiling(t *testing.T) {
	h := Parser(defaultBundle())
	p := basePayload()
	p.CurrentDay = 7
	p.CustomerResponse = "maybe later"

	ins, err := h(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 1 || ins[0].Queue != queue.Completion {
		t.Fatalf("want completion insertion, got %+v", ins)
	}
	if ins[0].Payload.Status != workflow.StatusFailed {
		t.Errorf("status = %s, want failed (timeout)", ins[0].Payload.Status)
	}
}

func TestParserNoResponseFollowsUp(t *testing.T) {
	h := Parser(defaultBundle())

	for _, day := range []int{0, 1, 2, 3} {
		p := basePayload()
		p.CurrentDay = day

		ins, err := h(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if len(ins) != 1 || ins[0].Queue != queue.FollowUp {
			t.Fatalf("day %d: want follow-up insertion, got %+v", day, ins)
		}
		if ins[0].Payload.CurrentDay != day+1 {
			t.Errorf("day %d: follow-up carries day %d, want %d", day, ins[0].Payload.CurrentDay, day+1)
		}
	}
}

func TestParserNoResponseEscalates(t *testing.T) {
	h := Parser(defaultBundle())

	for _, day := range []int{4, 5, 6, 7} {
		p := basePayload()
		p.CurrentDay = day

		ins, err := h(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if len(ins) != 1 || ins[0].Queue != queue.Escalation {
			t.Fatalf("day %d: want escalation insertion, got %+v", day, ins)
		}
		if ins[0].Payload.Status != workflow.StatusEscalated {
			t.Errorf("day %d: status = %s, want escalated", day, ins[0].Payload.Status)
		}
		if ins[0].Payload.CurrentDay != day {
			t.Errorf("day %d: escalation must not advance the day", day)
		}
	}
}
