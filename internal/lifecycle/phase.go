// Package lifecycle derives an election's phase, countdown and voter eligibility from
// timestamps and voter records. Everything here is pure except Watcher, which owns a ticker.
package lifecycle

import (
	"time"

	"voteguard/internal/domain"
)

// ResolvePhase maps (now, start, end) to exactly one phase. Both window boundaries
// count as Active.
func ResolvePhase(now, start, end time.Time) domain.Phase {
	switch {
	case now.Before(start):
		return domain.PhasePending
	case now.After(end):
		return domain.PhaseClosed
	default:
		return domain.PhaseActive
	}
}

// ElectionPhase is ResolvePhase applied to an election's window
func ElectionPhase(now time.Time, e *domain.Election) domain.Phase {
	return ResolvePhase(now, e.StartAt, e.EndAt)
}
