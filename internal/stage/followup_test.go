package stage

import (
	"context"
	"testing"
	"time"

	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

func TestFollowUpAnchoredSchedule(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Hour)
	h := FollowUp(func() time.Time { return now })

	tests := []struct {
		day  int
		want time.Duration
	}{
		{1, 22 * time.Hour},
		{2, 46 * time.Hour},
		{4, 94 * time.Hour},
		{7, 166 * time.Hour},
	}

	for _, tt := range tests {
		p := basePayload()
		p.StartedAt = start
		p.CurrentDay = tt.day

		ins, err := h(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if len(ins) != 1 || ins[0].Queue != queue.Controller {
			t.Fatalf("day %d: want controller insertion, got %+v", tt.day, ins)
		}
		if ins[0].Opts == nil || ins[0].Opts.Delay != tt.want {
			t.Errorf("day %d: delay = %v, want %v", tt.day, ins[0].Opts.Delay, tt.want)
		}
		if ins[0].Payload.CurrentDay != tt.day {
			t.Errorf("day %d: follow-up must not advance the day again", tt.day)
		}
	}
}

func TestFollowUpClampsPastAnchor(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := start.Add(30 * time.Hour)
	h := FollowUp(func() time.Time { return now })

	p := basePayload()
	p.StartedAt = start
	p.CurrentDay = 1

	ins, err := h(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if ins[0].Opts.Delay != 0 {
		t.Errorf("delay = %v, want 0 when the anchor already passed", ins[0].Opts.Delay)
	}
}

func TestFollowUpRandomWindow(t *testing.T) {
	h := FollowUp(time.Now)

	for i := 0; i < 20; i++ {
		p := basePayload()
		p.StartedAt = time.Now()
		p.CurrentDay = 3

		ins, err := h(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		d := ins[0].Opts.Delay
		if d < 6*time.Hour || d > 18*time.Hour {
			t.Fatalf("day 3 delay %v outside 6-18h window", d)
		}
	}
}

func TestFollowUpDropsPastCeiling(t *testing.T) {
	h := FollowUp(time.Now)
	p := basePayload()
	p.CurrentDay = workflow.MaxDays + 1

	ins, err := h(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 0 {
		t.Fatalf("want no insertions past the ceiling, got %+v", ins)
	}
}
