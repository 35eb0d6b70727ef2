package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"voteguard/internal/domain"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestResolvePhase(t *testing.T) {
	start := t0
	end := t0.Add(time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want domain.Phase
	}{
		{name: "before start", now: start.Add(-time.Millisecond), want: domain.PhasePending},
		{name: "exactly start", now: start, want: domain.PhaseActive},
		{name: "midway", now: start.Add(30 * time.Minute), want: domain.PhaseActive},
		{name: "exactly end", now: end, want: domain.PhaseActive},
		{name: "after end", now: end.Add(time.Millisecond), want: domain.PhaseClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePhase(tt.now, start, end))
		})
	}
}

func TestResolvePhase_MonotonicInNow(t *testing.T) {
	order := map[domain.Phase]int{
		domain.PhasePending: 0,
		domain.PhaseActive:  1,
		domain.PhaseClosed:  2,
	}

	windows := []struct{ start, end time.Time }{
		{t0, t0.Add(time.Second)},
		{t0, t0.Add(90 * time.Minute)},
		{t0, t0.Add(72 * time.Hour)},
	}

	for _, w := range windows {
		prev := -1
		for now := w.start.Add(-2 * time.Hour); now.Before(w.end.Add(2 * time.Hour)); now = now.Add(7 * time.Minute) {
			phase := ResolvePhase(now, w.start, w.end)
			rank, ok := order[phase]
			assert.True(t, ok, "phase must be one of the three")
			assert.GreaterOrEqual(t, rank, prev, "phase reversed at %s", now)
			prev = rank
		}
		assert.Equal(t, 2, prev)
	}
}

func TestElectionPhase(t *testing.T) {
	e := &domain.Election{StartAt: t0, EndAt: t0.Add(time.Hour)}
	assert.Equal(t, domain.PhaseActive, ElectionPhase(t0.Add(30*time.Minute), e))
	assert.Equal(t, domain.PhaseClosed, ElectionPhase(t0.Add(2*time.Hour), e))
}
