package ingest

import (
	"strings"
	"testing"
	"time"

	"outreach-engine/internal/workflow"
)

var now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestNormalizeWorkflowIDAliases(t *testing.T) {
	tests := []struct {
		name    string
		dataset map[string]interface{}
		want    string
	}{
		{"camelCase", map[string]interface{}{"workflowId": "wf-a"}, "wf-a"},
		{"snake_case", map[string]interface{}{"workflow_id": "wf-b"}, "wf-b"},
		{"bare id", map[string]interface{}{"id": "wf-c"}, "wf-c"},
		{"camelCase wins", map[string]interface{}{"workflowId": "wf-a", "id": "wf-c"}, "wf-a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(tt.dataset, now)
			if err != nil {
				t.Fatal(err)
			}
			if p.WorkflowID != tt.want {
				t.Errorf("workflowId = %q, want %q", p.WorkflowID, tt.want)
			}
		})
	}
}

func TestNormalizeGeneratesWorkflowID(t *testing.T) {
	p, err := Normalize(map[string]interface{}{"region": "US"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(p.WorkflowID, "wf_") {
		t.Errorf("generated id = %q, want wf_ prefix", p.WorkflowID)
	}
}

func TestNormalizeRegion(t *testing.T) {
	tests := []struct {
		in   map[string]interface{}
		want workflow.Region
	}{
		{map[string]interface{}{"regionCode": "EU"}, workflow.RegionEU},
		{map[string]interface{}{"regionCode": "au"}, workflow.RegionAU},
		{map[string]interface{}{"region": "United Kingdom"}, workflow.RegionUK},
		{map[string]interface{}{"country": "usa"}, workflow.RegionUS},
		{map[string]interface{}{"country": "Australia"}, workflow.RegionAU},
		{map[string]interface{}{"region": "mars"}, workflow.RegionUS},
		{map[string]interface{}{}, workflow.RegionUS},
	}
	for _, tt := range tests {
		p, err := Normalize(tt.in, now)
		if err != nil {
			t.Fatal(err)
		}
		if p.RegionCode != tt.want {
			t.Errorf("Normalize(%v) region = %s, want %s", tt.in, p.RegionCode, tt.want)
		}
	}
}

func TestNormalizeTierFlags(t *testing.T) {
	p, err := Normalize(map[string]interface{}{
		"tierFlags": map[string]interface{}{
			"priority": "high",
			"channels": []interface{}{"email", "VOICE", "fax", "email"},
		},
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.TierFlags.Priority != workflow.PriorityHigh {
		t.Errorf("priority = %s", p.TierFlags.Priority)
	}
	want := []workflow.Channel{workflow.ChannelEmail, workflow.ChannelVoice}
	if len(p.TierFlags.Channels) != len(want) {
		t.Fatalf("channels = %v, want %v", p.TierFlags.Channels, want)
	}
	for i, c := range want {
		if p.TierFlags.Channels[i] != c {
			t.Errorf("channels[%d] = %s, want %s", i, p.TierFlags.Channels[i], c)
		}
	}
}

func TestNormalizeFlatTierFields(t *testing.T) {
	p, err := Normalize(map[string]interface{}{
		"priority": "high",
		"channels": "chat",
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.TierFlags.Priority != workflow.PriorityHigh {
		t.Errorf("priority = %s", p.TierFlags.Priority)
	}
	if len(p.TierFlags.Channels) != 1 || p.TierFlags.Channels[0] != workflow.ChannelChat {
		t.Errorf("channels = %v", p.TierFlags.Channels)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	p, err := Normalize(map[string]interface{}{"id": "wf-d"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.TierFlags.Priority != workflow.PriorityNormal {
		t.Errorf("priority = %s, want normal", p.TierFlags.Priority)
	}
	if len(p.TierFlags.Channels) != 1 || p.TierFlags.Channels[0] != workflow.ChannelEmail {
		t.Errorf("channels = %v, want [email]", p.TierFlags.Channels)
	}
	if p.Status != workflow.StatusPending {
		t.Errorf("status = %s, want pending", p.Status)
	}
	if p.CurrentDay != 0 {
		t.Errorf("currentDay = %d, want 0", p.CurrentDay)
	}
	if !p.StartedAt.Equal(now) {
		t.Errorf("startedAt = %v, want ingest time", p.StartedAt)
	}
}

func TestNormalizeInvalidChannelsFallBack(t *testing.T) {
	p, err := Normalize(map[string]interface{}{
		"channels": []interface{}{"fax", "pigeon"},
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.TierFlags.Channels) != 1 || p.TierFlags.Channels[0] != workflow.ChannelEmail {
		t.Errorf("channels = %v, want [email] fallback", p.TierFlags.Channels)
	}
}

func TestNormalizeOptionalFields(t *testing.T) {
	p, err := Normalize(map[string]interface{}{
		"workflowId":       "wf-x",
		"currentDay":       float64(3),
		"status":           "in_progress",
		"selectedChannel":  "chat",
		"customerResponse": "yes",
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.CurrentDay != 3 {
		t.Errorf("currentDay = %d", p.CurrentDay)
	}
	if p.Status != workflow.StatusInProgress {
		t.Errorf("status = %s", p.Status)
	}
	if p.SelectedChannel != workflow.ChannelChat {
		t.Errorf("selectedChannel = %s", p.SelectedChannel)
	}
	if p.CustomerResponse != "yes" {
		t.Errorf("customerResponse = %q", p.CustomerResponse)
	}
}

func TestNormalizeNilDataset(t *testing.T) {
	if _, err := Normalize(nil, now); err == nil {
		t.Fatal("want validation error for nil dataset")
	}
}
