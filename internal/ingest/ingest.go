// Package ingest turns loosely-structured inbound trigger records into
// validated workflow payloads. The permissive key aliasing of external
// callers (workflowId/workflow_id/id, region/country, flat or nested tier
// flags) lives here and nowhere else.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"outreach-engine/internal/workflow"
)

// ValidationError reports a rejected inbound record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var regionAliases = map[string]workflow.Region{
	"australia":      workflow.RegionAU,
	"europe":         workflow.RegionEU,
	"united states":  workflow.RegionUS,
	"usa":            workflow.RegionUS,
	"united kingdom": workflow.RegionUK,
	"canada":         workflow.RegionCA,
}

// Normalize builds a workflow payload from an arbitrary inbound dataset.
// Missing identity is generated, unknown regions default to US, and the
// channel set is filtered to the valid channels with email as fallback.
func Normalize(dataset map[string]interface{}, now time.Time) (workflow.Payload, error) {
	if dataset == nil {
		return workflow.Payload{}, &ValidationError{Field: "dataset", Reason: "empty record"}
	}

	p := workflow.Payload{
		WorkflowID: workflowID(dataset),
		RegionCode: region(dataset),
		TierFlags:  tierFlags(dataset),
		CurrentDay: intField(dataset, "currentDay"),
		StartedAt:  now.UTC(),
		Status:     workflow.StatusPending,
	}

	if s, ok := stringField(dataset, "status"); ok {
		p.Status = workflow.Status(s)
	}
	if s, ok := stringField(dataset, "selectedChannel"); ok {
		p.SelectedChannel = workflow.Channel(s)
	}
	if s, ok := stringField(dataset, "lastMessageSent"); ok {
		p.LastMessageSent = s
	}
	if s, ok := stringField(dataset, "customerResponse"); ok {
		p.CustomerResponse = s
	}

	return p, nil
}

func workflowID(dataset map[string]interface{}) string {
	for _, key := range []string{"workflowId", "workflow_id", "id"} {
		if s, ok := stringField(dataset, key); ok {
			return s
		}
	}
	return "wf_" + uuid.NewString()
}

func region(dataset map[string]interface{}) workflow.Region {
	var raw string
	for _, key := range []string{"regionCode", "region", "country"} {
		if s, ok := stringField(dataset, key); ok {
			raw = s
			break
		}
	}
	if raw == "" {
		return workflow.RegionUS
	}

	if r := workflow.Region(strings.ToUpper(raw)); workflow.ValidRegion(r) {
		return r
	}
	if r, ok := regionAliases[strings.ToLower(raw)]; ok {
		return r
	}
	return workflow.RegionUS
}

func tierFlags(dataset map[string]interface{}) workflow.TierFlags {
	var rawPriority string
	var rawChannels interface{}

	if tf, ok := dataset["tierFlags"].(map[string]interface{}); ok {
		if s, ok := stringField(tf, "priority"); ok {
			rawPriority = s
		}
		rawChannels = tf["channels"]
	}
	if rawPriority == "" {
		if s, ok := stringField(dataset, "priority"); ok {
			rawPriority = s
		}
	}
	if rawChannels == nil {
		rawChannels = dataset["channels"]
	}

	flags := workflow.TierFlags{Priority: workflow.PriorityNormal}
	if rawPriority == string(workflow.PriorityHigh) {
		flags.Priority = workflow.PriorityHigh
	}

	for _, raw := range asList(rawChannels) {
		c := workflow.Channel(strings.ToLower(raw))
		if workflow.ValidChannel(c) && !flags.Has(c) {
			flags.Channels = append(flags.Channels, c)
		}
	}
	if len(flags.Channels) == 0 {
		flags.Channels = []workflow.Channel{workflow.ChannelEmail}
	}
	return flags
}

func asList(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	case string:
		return []string{t}
	}
	return nil
}

func stringField(m map[string]interface{}, key string) (string, bool) {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
