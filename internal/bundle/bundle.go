// Package bundle holds the remote message-template and keyword configuration:
// an encrypted S3 document fetched once and cached process-wide, with an
// embedded default used whenever the fetch or decrypt fails.
package bundle

import (
	"strings"
	"time"

	"outreach-engine/internal/workflow"
)

// Template is one message body keyed by (day, channel, region).
type Template struct {
	Day       int              `json:"day"`
	Channel   workflow.Channel `json:"channel"`
	Region    workflow.Region  `json:"region"`
	Subject   string           `json:"subject,omitempty"`
	Body      string           `json:"body"`
	Variables []string         `json:"variables"`
}

type Keywords struct {
	Success []string `json:"success"`
	Failure []string `json:"failure"`
}

type Metadata struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
}

type Bundle struct {
	Templates []Template `json:"templates"`
	Keywords  Keywords   `json:"keywords"`
	Metadata  Metadata   `json:"metadata"`
}

// FindTemplate returns the template exactly matching (day, channel, region).
func (b *Bundle) FindTemplate(day int, channel workflow.Channel, region workflow.Region) (Template, bool) {
	for _, t := range b.Templates {
		if t.Day == day && t.Channel == channel && t.Region == region {
			return t, true
		}
	}
	return Template{}, false
}

// Fill substitutes {{key}} tokens in body.
func Fill(body string, vars map[string]string) string {
	for k, v := range vars {
		body = strings.ReplaceAll(body, "{{"+k+"}}", v)
	}
	return body
}

// Default is the embedded fallback bundle.
func Default() *Bundle {
	return &Bundle{
		Templates: []Template{
			{
				Day:       0,
				Channel:   workflow.ChannelEmail,
				Region:    workflow.RegionUS,
				Subject:   "Initial Contact",
				Body:      "Hello {{customerName}}, we are reaching out regarding {{topic}}.",
				Variables: []string{"customerName", "topic"},
			},
			{
				Day:       2,
				Channel:   workflow.ChannelEmail,
				Region:    workflow.RegionUS,
				Subject:   "Follow-up",
				Body:      "Hi {{customerName}}, just following up on our previous message.",
				Variables: []string{"customerName"},
			},
			{
				Day:       7,
				Channel:   workflow.ChannelEmail,
				Region:    workflow.RegionUS,
				Subject:   "Final Notice",
				Body:      "This is our final attempt to reach you, {{customerName}}.",
				Variables: []string{"customerName"},
			},
		},
		Keywords: Keywords{
			Success: []string{"yes", "ok", "confirmed", "done", "approved", "interested"},
			Failure: []string{"no", "stop", "cancel", "unsubscribe"},
		},
		Metadata: Metadata{
			Version:     "1.0.0",
			LastUpdated: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
