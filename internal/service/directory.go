package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"voteguard/internal/domain"
	"voteguard/internal/lifecycle"
	apperrors "voteguard/pkg/errors"
)

// Tab selects a subset of the directory by phase
type Tab string

const (
	TabAll       Tab = "all"
	TabOngoing   Tab = "ongoing"
	TabInProcess Tab = "in_process"
	TabEnded     Tab = "ended"
)

var tabPhases = map[Tab]domain.Phase{
	TabOngoing:   domain.PhaseActive,
	TabInProcess: domain.PhasePending,
	TabEnded:     domain.PhaseClosed,
}

// ParseTab maps a query value to a tab. Empty means all.
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	if s == "" || t == TabAll {
		return TabAll, nil
	}
	if _, ok := tabPhases[t]; ok {
		return t, nil
	}
	return "", apperrors.NewValidationError("unknown tab", map[string]interface{}{
		"tab":     s,
		"allowed": []Tab{TabAll, TabOngoing, TabInProcess, TabEnded},
	})
}

// FilterByTab resolves every election's phase against the same now and keeps those
// matching tab. TabAll keeps everything in input order.
func FilterByTab(now time.Time, elections []domain.Election, tab Tab) []ElectionSummary {
	want, filtered := tabPhases[tab]
	out := make([]ElectionSummary, 0, len(elections))
	for _, e := range elections {
		phase := lifecycle.ResolvePhase(now, e.StartAt, e.EndAt)
		if filtered && phase != want {
			continue
		}
		out = append(out, ElectionSummary{Election: e, Phase: phase, Label: phase.Label()})
	}
	return out
}

// Directory lists an organizer's owned elections and a voter's joined elections
type Directory struct {
	elections     ElectionBackend
	participation ParticipationBackend
	clock         clockwork.Clock
	concurrency   int
	logger        *zap.Logger
}

// NewDirectory creates a new election directory
func NewDirectory(elections ElectionBackend, participation ParticipationBackend, clock clockwork.Clock, concurrency int, logger *zap.Logger) *Directory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if concurrency < 1 {
		concurrency = DefaultBulkConcurrency
	}
	return &Directory{
		elections:     elections,
		participation: participation,
		clock:         clock,
		concurrency:   concurrency,
		logger:        logger,
	}
}

// Owned lists the organizer's elections for tab, each with its accepted-voter count
func (d *Directory) Owned(ctx context.Context, ownerID string, tab Tab) (*DirectoryView, error) {
	elections, err := d.elections.ListElections(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := d.clock.Now()
	view := &DirectoryView{Tab: tab, Now: now, Elections: FilterByTab(now, elections, tab)}
	d.countAccepted(ctx, ownerID, view.Elections)
	return view, nil
}

// Joined lists the elections a voter has joined, for tab
func (d *Directory) Joined(ctx context.Context, userID string, tab Tab) (*DirectoryView, error) {
	elections, err := d.participation.ListJoinedElections(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := d.clock.Now()
	return &DirectoryView{Tab: tab, Now: now, Elections: FilterByTab(now, elections, tab)}, nil
}

// countAccepted fills AcceptedVoters concurrently. A failed count is left nil.
func (d *Directory) countAccepted(ctx context.Context, ownerID string, rows []ElectionSummary) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i := range rows {
		i := i
		g.Go(func() error {
			electionID := rows[i].ID.String()
			voters, err := d.elections.ListAcceptedVoters(gctx, ownerID, electionID)
			if err != nil {
				d.logger.Warn("Failed to count accepted voters",
					zap.String("election_id", electionID),
					zap.Error(err))
				return nil
			}
			n := len(voters)
			rows[i].AcceptedVoters = &n
			return nil
		})
	}
	_ = g.Wait()
}
