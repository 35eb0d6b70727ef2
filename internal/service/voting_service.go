package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"voteguard/internal/backend"
	"voteguard/internal/domain"
	"voteguard/internal/lifecycle"
	apperrors "voteguard/pkg/errors"
)

// VotingService builds the ballot page and submits ballots
type VotingService struct {
	backend  BallotBackend
	results  *ResultPresenter
	inflight InflightGuard
	clock    clockwork.Clock
	logger   *zap.Logger
}

func NewVotingService(backend BallotBackend, results *ResultPresenter, inflight InflightGuard, clock clockwork.Clock, logger *zap.Logger) *VotingService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if inflight == nil {
		inflight = NewLocalInflight()
	}
	return &VotingService{
		backend:  backend,
		results:  results,
		inflight: inflight,
		clock:    clock,
		logger:   logger,
	}
}

// Election returns the election a voter votes in
func (s *VotingService) Election(ctx context.Context, voterID, electionID string) (*domain.Election, error) {
	return s.backend.GetBallotOptions(ctx, voterID, electionID)
}

// View fetches the election and the voter's limitation and derives phase, countdown and
// eligibility from them at the current instant.
func (s *VotingService) View(ctx context.Context, voterID, electionID string) (*BallotView, error) {
	election, err := s.backend.GetBallotOptions(ctx, voterID, electionID)
	if err != nil {
		return nil, err
	}

	limitation, err := s.backend.GetVotingLimitation(ctx, voterID)
	if err != nil {
		return nil, err
	}
	state, hasVoted := limitation.State(), bool(limitation.HasVoted)
	if limitation.ElectionID != "" && limitation.ElectionID.String() != electionID {
		// Another election's record says nothing about this one.
		s.logger.Warn("Voting limitation belongs to another election",
			zap.String("voter_id", voterID),
			zap.String("election_id", electionID),
			zap.String("limitation_election_id", limitation.ElectionID.String()))
		state, hasVoted = domain.RequestPending, false
	}

	now := s.clock.Now()
	phase := lifecycle.ElectionPhase(now, election)
	eligibility := lifecycle.CanVote(phase, state, hasVoted)
	if eligibility.Eligible != limitation.EligibleToVote {
		s.logger.Debug("Local eligibility differs from election API verdict",
			zap.String("voter_id", voterID),
			zap.Bool("local", eligibility.Eligible),
			zap.Bool("remote", limitation.EligibleToVote))
	}

	options := election.Options
	if options == nil {
		options = []domain.Option{}
	}

	view := &BallotView{
		Election:    *election,
		Options:     options,
		Phase:       phase,
		Label:       phase.Label(),
		Countdown:   lifecycle.ProjectCountdown(now, phase, election.StartAt, election.EndAt),
		Eligibility: eligibility,
	}

	if phase == domain.PhaseClosed && s.results != nil {
		if view.Result, err = s.results.Lookup(ctx, electionID); err != nil {
			return nil, err
		}
	}

	return view, nil
}

// Submit casts a ballot. The local gate is re-checked first; when the election API then
// refuses a ballot the gate allowed, the view is re-synced and returned inside a
// stale_state_conflict error.
func (s *VotingService) Submit(ctx context.Context, voterID, electionID, optionID string) (*BallotView, error) {
	optionID = strings.TrimSpace(optionID)
	if optionID == "" {
		return nil, apperrors.NewValidationError("an option must be selected", map[string]interface{}{
			"vote": "required",
		})
	}

	release, err := s.inflight.Acquire(ctx, "ballot", voterID+":"+electionID)
	if err != nil {
		return nil, err
	}
	defer release()

	view, err := s.View(ctx, voterID, electionID)
	if err != nil {
		return nil, err
	}

	if !view.Eligibility.Eligible {
		return nil, apperrors.NewValidationError(view.Eligibility.Message, map[string]interface{}{
			"reason": view.Eligibility.Reason,
		})
	}
	if !hasOption(view.Options, optionID) {
		return nil, apperrors.NewValidationError("unknown option", map[string]interface{}{
			"vote": optionID,
		})
	}

	ballot := domain.Ballot{
		VoterID:    domain.ID(voterID),
		ElectionID: domain.ID(electionID),
		OptionID:   optionID,
	}
	if err := s.backend.SubmitBallot(ctx, ballot); err != nil {
		if !isStale(err) {
			return nil, err
		}
		return nil, s.staleConflict(ctx, voterID, electionID, err)
	}

	s.logger.Info("Ballot submitted",
		zap.String("voter_id", voterID),
		zap.String("election_id", electionID))

	return s.View(ctx, voterID, electionID)
}

// staleConflict re-fetches the ballot view after the election API contradicted the gate
func (s *VotingService) staleConflict(ctx context.Context, voterID, electionID string, cause error) error {
	message := "your ballot could not be accepted"
	if appErr, ok := apperrors.As(cause); ok {
		message = appErr.Message
	}
	stale := apperrors.NewStaleStateError(message, cause)

	s.logger.Info("Ballot refused after local gate allowed it",
		zap.String("voter_id", voterID),
		zap.String("election_id", electionID),
		zap.Int("backend_status", backend.StatusOf(cause)))

	resynced, err := s.View(ctx, voterID, electionID)
	if err != nil {
		s.logger.Warn("Failed to re-sync ballot view", zap.Error(err))
		return stale
	}
	return stale.WithDetail("view", resynced)
}

// isStale reports whether the election API refused an action because our view of the
// election or voter was out of date.
func isStale(err error) bool {
	switch backend.StatusOf(err) {
	case http.StatusConflict, http.StatusForbidden:
		return true
	}
	return false
}

func hasOption(options []domain.Option, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}
