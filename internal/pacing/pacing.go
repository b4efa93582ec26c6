// Package pacing computes the delays that make outreach look human and the
// day-advance schedule of the 7-day cycle.
package pacing

import (
	"context"
	"math/rand"
	"time"
)

// RandomDelay returns a uniform duration in [min, max].
func RandomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

// InitialMessageDelay is the human-pacing wait before a message goes out.
func InitialMessageDelay() time.Duration {
	return RandomDelay(30*time.Second, 90*time.Second)
}

// FollowUpDelay is the randomized wait used for day transitions without a
// fixed offset.
func FollowUpDelay() time.Duration {
	return RandomDelay(6*time.Hour, 18*time.Hour)
}

// DayOffset returns the fixed offset from workflow start for the scheduled
// days of the cycle.
func DayOffset(day int) (time.Duration, bool) {
	switch day {
	case 1:
		return 24 * time.Hour, true
	case 2:
		return 48 * time.Hour, true
	case 4:
		return 96 * time.Hour, true
	case 7:
		return 168 * time.Hour, true
	}
	return 0, false
}

// NextAdvanceDelay computes the wait before the controller re-entry for day.
// Scheduled days anchor on the workflow start so the timetable is
// deterministic; if the target time already passed the delay clamps to zero.
// Other days use the randomized follow-up window.
func NextAdvanceDelay(day int, startedAt, now time.Time) time.Duration {
	if offset, ok := DayOffset(day); ok {
		d := startedAt.Add(offset).Sub(now)
		if d < 0 {
			d = 0
		}
		return d
	}
	return FollowUpDelay()
}

// TypingDuration simulates composing a chat message at roughly 50 words per
// minute, five characters per word, bounded to 3-8 seconds.
func TypingDuration(messageLen int) time.Duration {
	const wordsPerMinute = 50
	const charsPerWord = 5

	words := float64(messageLen) / charsPerWord
	seconds := time.Duration(words/wordsPerMinute*60+0.999) * time.Second

	if seconds < 3*time.Second {
		return 3 * time.Second
	}
	if seconds > 8*time.Second {
		return 8 * time.Second
	}
	return seconds
}

// Sleeper lets stage handlers pause without tests paying real time.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Real waits on a timer, honoring context cancellation.
type Real struct{}

func (Real) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// None returns immediately; used by tests.
type None struct{}

func (None) Sleep(context.Context, time.Duration) error { return nil }
