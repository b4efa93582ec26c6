package queue

import "time"

// RetryDelay returns the wait before retry number attempt (1-based):
// min(attempt*base, cap). Deterministic so retry schedules are predictable.
func RetryDelay(attempt int, base, cap time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		base = time.Second
	}
	d := time.Duration(attempt) * base
	if cap > 0 && d > cap {
		d = cap
	}
	return d
}
