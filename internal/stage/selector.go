package stage

import (
	"context"

	"outreach-engine/internal/queue"
	"outreach-engine/internal/workflow"
)

// PickChannel is the channel policy: a pure function of day, region and tier
// flags. EU never gets voice.
func PickChannel(day int, region workflow.Region, flags workflow.TierFlags) workflow.Channel {
	if len(flags.Channels) == 0 {
		flags.Channels = []workflow.Channel{workflow.ChannelEmail}
	}
	var selected workflow.Channel

	switch {
	case day <= 2:
		// Early days lead with email.
		if flags.Has(workflow.ChannelEmail) {
			selected = workflow.ChannelEmail
		} else {
			selected = flags.Channels[0]
		}
	case day == 4:
		// Mid-cycle switches to a non-email alternative when one exists.
		selected = workflow.ChannelEmail
		for _, c := range flags.Channels {
			if c != workflow.ChannelEmail {
				selected = c
				break
			}
		}
	default:
		// Late cycle: high priority reaches for voice, otherwise chat.
		if flags.Priority == workflow.PriorityHigh && flags.Has(workflow.ChannelVoice) {
			selected = workflow.ChannelVoice
		} else if flags.Has(workflow.ChannelChat) {
			selected = workflow.ChannelChat
		} else {
			selected = flags.Channels[0]
		}
	}

	// Regulatory channel restriction.
	if region == workflow.RegionEU && selected == workflow.ChannelVoice {
		selected = workflow.ChannelEmail
	}
	return selected
}

// Selector tags the payload with the chosen channel and hands off to message
// building.
func Selector() queue.HandlerFunc {
	return func(ctx context.Context, p workflow.Payload) ([]queue.Insertion, error) {
		p.SelectedChannel = PickChannel(p.CurrentDay, p.RegionCode, p.TierFlags)

		return []queue.Insertion{{
			Queue:   queue.MessageBuilder,
			JobName: "build-message-" + string(p.SelectedChannel),
			Payload: p,
		}}, nil
	}
}
