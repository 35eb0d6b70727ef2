package lifecycle

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"voteguard/internal/domain"
)

// DefaultTickInterval is how often a live countdown is recomputed
const DefaultTickInterval = time.Second

// Tick is one recomputation of an election's phase and countdown
type Tick struct {
	At        time.Time    `json:"at"`
	Phase     domain.Phase `json:"phase"`
	Label     string       `json:"label"`
	Countdown Countdown    `json:"countdown"`
}

// Snapshot computes the tick for now without scheduling anything
func Snapshot(now, start, end time.Time) Tick {
	phase := ResolvePhase(now, start, end)
	return Tick{
		At:        now,
		Phase:     phase,
		Label:     phase.Label(),
		Countdown: ProjectCountdown(now, phase, start, end),
	}
}

// Watcher drives a live countdown for one view
type Watcher struct {
	clock    clockwork.Clock
	interval time.Duration
}

// NewWatcher creates a watcher ticking once per second on clock
func NewWatcher(clock clockwork.Clock) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Watcher{clock: clock, interval: DefaultTickInterval}
}

// Watch emits a tick immediately and then once per interval until ctx is cancelled,
// emit fails, or a Closed tick has been emitted. The phase is re-resolved on every
// tick. The ticker is stopped before Watch returns.
func (w *Watcher) Watch(ctx context.Context, start, end time.Time, emit func(Tick) error) error {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		tick := Snapshot(w.clock.Now(), start, end)
		if err := emit(tick); err != nil {
			return err
		}
		if tick.Phase == domain.PhaseClosed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}
	}
}
