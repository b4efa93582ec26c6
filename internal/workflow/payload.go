package workflow

import "time"

// Region codes supported by channel policy.
type Region string

const (
	RegionAU Region = "AU"
	RegionEU Region = "EU"
	RegionUS Region = "US"
	RegionUK Region = "UK"
	RegionCA Region = "CA"
)

// ValidRegion reports whether r is one of the five supported codes.
func ValidRegion(r Region) bool {
	switch r {
	case RegionAU, RegionEU, RegionUS, RegionUK, RegionCA:
		return true
	}
	return false
}

// Channel is an outreach transport.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelChat  Channel = "chat"
	ChannelVoice Channel = "voice"
)

func ValidChannel(c Channel) bool {
	return c == ChannelEmail || c == ChannelChat || c == ChannelVoice
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Status only moves forward: pending -> in_progress -> {completed, failed, escalated}.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusEscalated  Status = "escalated"
)

// TierFlags carry the priority class and the channels the customer allows.
type TierFlags struct {
	Priority Priority  `json:"priority"`
	Channels []Channel `json:"channels"`
}

// Has reports whether c is in the allowed channel set.
func (t TierFlags) Has(c Channel) bool {
	for _, ch := range t.Channels {
		if ch == c {
			return true
		}
	}
	return false
}

// MaxDays is the lifecycle ceiling; a workflow at day 7 or beyond is terminal.
const MaxDays = 7

// Payload is the sole state record threaded through every queue hop.
// WorkflowID is assigned once at ingest and never regenerated; StartedAt anchors
// the deterministic day schedule.
type Payload struct {
	WorkflowID       string    `json:"workflowId"`
	RegionCode       Region    `json:"regionCode"`
	TierFlags        TierFlags `json:"tierFlags"`
	AttemptCount     int       `json:"attemptCount,omitempty"`
	CurrentDay       int       `json:"currentDay"`
	StartedAt        time.Time `json:"startedAt"`
	SelectedChannel  Channel   `json:"selectedChannel,omitempty"`
	LastMessageSent  string    `json:"lastMessageSent,omitempty"`
	CustomerResponse string    `json:"customerResponse,omitempty"`
	Status           Status    `json:"status,omitempty"`
}

// Terminal reports whether the workflow already reached a final outcome.
func (p Payload) Terminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}

// DeadLetter is a payload snapshot written when a job exhausts its attempt
// budget. Records are retained indefinitely.
type DeadLetter struct {
	Payload
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failedAt"`
	Attempts int       `json:"attempts"`
	Queue    string    `json:"queue"`
}
