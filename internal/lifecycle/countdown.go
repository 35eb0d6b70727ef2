package lifecycle

import (
	"time"

	"voteguard/internal/domain"
)

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Countdown is the remaining time toward the next phase boundary
type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// IsZero reports whether the target boundary has been reached
func (c Countdown) IsZero() bool {
	return c == Countdown{}
}

// Duration converts the countdown back to a duration (whole seconds)
func (c Countdown) Duration() time.Duration {
	return time.Duration(c.Days)*24*time.Hour +
		time.Duration(c.Hours)*time.Hour +
		time.Duration(c.Minutes)*time.Minute +
		time.Duration(c.Seconds)*time.Second
}

// Target returns the boundary a countdown in phase p runs toward. ok is false when Closed.
func Target(p domain.Phase, start, end time.Time) (target time.Time, ok bool) {
	switch p {
	case domain.PhasePending:
		return start, true
	case domain.PhaseActive:
		return end, true
	default:
		return time.Time{}, false
	}
}

// ProjectCountdown returns the time left until start (Pending) or end (Active),
// clamped at zero. Closed always yields the zero countdown.
func ProjectCountdown(now time.Time, phase domain.Phase, start, end time.Time) Countdown {
	target, ok := Target(phase, start, end)
	if !ok {
		return Countdown{}
	}

	diff := target.UnixMilli() - now.UnixMilli()
	if diff <= 0 {
		return Countdown{}
	}

	return Countdown{
		Days:    diff / msPerDay,
		Hours:   (diff / msPerHour) % 24,
		Minutes: (diff / msPerMinute) % 60,
		Seconds: (diff / msPerSecond) % 60,
	}
}
