package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"voteguard/internal/domain"
	"voteguard/internal/lifecycle"
	apperrors "voteguard/pkg/errors"
)

// DefaultCodeMaxAttempts bounds the election code uniqueness loop
const DefaultCodeMaxAttempts = 32

// ElectionService manages an organizer's elections
type ElectionService struct {
	backend     ElectionBackend
	results     *ResultPresenter
	clock       clockwork.Clock
	newCode     CodeGenerator
	maxAttempts int
	logger      *zap.Logger
}

// NewElectionService creates a new election service
func NewElectionService(backend ElectionBackend, results *ResultPresenter, clock clockwork.Clock, maxAttempts int, logger *zap.Logger) *ElectionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultCodeMaxAttempts
	}
	return &ElectionService{
		backend:     backend,
		results:     results,
		clock:       clock,
		newCode:     RandomCodes(nil),
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// WithCodeGenerator replaces the random code source
func (s *ElectionService) WithCodeGenerator(g CodeGenerator) *ElectionService {
	s.newCode = g
	return s
}

// GenerateCode draws codes until the election API reports one unused. The loop is
// bounded by the configured attempt limit and by ctx.
func (s *ElectionService) GenerateCode(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := s.newCode()
		if err != nil {
			return "", apperrors.NewInternalError("failed to generate election code", err)
		}

		exists, err := s.backend.ElectionCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			s.logger.Debug("Election code generated", zap.Int("attempts", attempt))
			return code, nil
		}
	}

	s.logger.Error("Election code space exhausted", zap.Int("attempts", s.maxAttempts))
	return "", apperrors.NewInternalError("could not find an unused election code", nil)
}

// Create validates in, assigns a fresh code and creates the election
func (s *ElectionService) Create(ctx context.Context, ownerID string, in domain.ElectionInput) (*domain.Election, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := ValidateElectionInput(in); err != nil {
		return nil, err
	}

	code, err := s.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.backend.CreateElection(ctx, ownerID, in, code)
	if err != nil {
		s.logger.Warn("Failed to create election", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Election created",
		zap.String("owner_id", ownerID),
		zap.String("election_id", id.String()))

	return &domain.Election{
		ID:          id,
		OwnerID:     domain.ID(ownerID),
		Title:       in.Title,
		Description: in.Description,
		Code:        code,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
	}, nil
}

// Update replaces an election's editable fields. The schedule is frozen once voting began.
func (s *ElectionService) Update(ctx context.Context, ownerID, electionID string, in domain.ElectionInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if err := ValidateElectionInput(in); err != nil {
		return err
	}

	current, err := s.backend.GetElection(ctx, ownerID, electionID)
	if err != nil {
		return err
	}

	phase := lifecycle.ElectionPhase(s.clock.Now(), current)
	scheduleChanged := !in.StartAt.Equal(current.StartAt) || !in.EndAt.Equal(current.EndAt)
	if phase != domain.PhasePending && scheduleChanged {
		return apperrors.NewValidationError("the schedule cannot change after voting has started", map[string]interface{}{
			"phase": phase,
		})
	}

	return s.backend.UpdateElection(ctx, ownerID, electionID, in)
}

// UpdateOptions validates and renumbers options "1".."n" in the given order, then saves them.
// Ballots refer to option ids, so options are frozen once voting has started.
func (s *ElectionService) UpdateOptions(ctx context.Context, ownerID, electionID string, options []domain.Option) ([]domain.Option, error) {
	normalized, err := NormalizeOptions(options)
	if err != nil {
		return nil, err
	}

	current, err := s.backend.GetElection(ctx, ownerID, electionID)
	if err != nil {
		return nil, err
	}
	if phase := lifecycle.ElectionPhase(s.clock.Now(), current); phase != domain.PhasePending {
		return nil, apperrors.NewValidationError("options cannot change after voting has started", map[string]interface{}{
			"phase": phase,
		})
	}

	if err := s.backend.UpdateOptions(ctx, ownerID, electionID, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// Delete deletes an election and forgets its cached result
func (s *ElectionService) Delete(ctx context.Context, ownerID, electionID string) error {
	if err := s.backend.DeleteElection(ctx, ownerID, electionID); err != nil {
		return err
	}
	s.results.Forget(ctx, electionID)
	s.logger.Info("Election deleted",
		zap.String("owner_id", ownerID),
		zap.String("election_id", electionID))
	return nil
}

// GenerateKeys triggers key generation for an election the organizer owns
func (s *ElectionService) GenerateKeys(ctx context.Context, ownerID, electionID string) error {
	if _, err := s.backend.GetElection(ctx, ownerID, electionID); err != nil {
		return err
	}
	return s.backend.GenerateKeys(ctx, electionID)
}

// Get returns one owned election
func (s *ElectionService) Get(ctx context.Context, ownerID, electionID string) (*domain.Election, error) {
	return s.backend.GetElection(ctx, ownerID, electionID)
}

// Detail builds the organizer's view of one election
func (s *ElectionService) Detail(ctx context.Context, ownerID, electionID string) (*ElectionDetailView, error) {
	election, err := s.backend.GetElection(ctx, ownerID, electionID)
	if err != nil {
		return nil, err
	}

	voters, err := s.backend.ListAcceptedVoters(ctx, ownerID, electionID)
	if err != nil {
		return nil, err
	}
	if voters == nil {
		voters = []domain.AcceptedVoter{}
	}

	now := s.clock.Now()
	phase := lifecycle.ElectionPhase(now, election)
	view := &ElectionDetailView{
		Election:       *election,
		Phase:          phase,
		Label:          phase.Label(),
		Countdown:      lifecycle.ProjectCountdown(now, phase, election.StartAt, election.EndAt),
		AcceptedVoters: voters,
	}

	if phase == domain.PhaseClosed {
		result, err := s.results.Lookup(ctx, electionID)
		if err != nil {
			return nil, err
		}
		view.Result = result
		view.CanGenerate = result == nil && !s.results.Generating(ctx, electionID)
	}

	return view, nil
}

// ValidateElectionInput checks the required fields and that start precedes end
func ValidateElectionInput(in domain.ElectionInput) error {
	details := map[string]interface{}{}
	if strings.TrimSpace(in.Title) == "" {
		details["title"] = "title is required"
	}
	if in.StartAt.IsZero() {
		details["start_datetime"] = "start time is required"
	}
	if in.EndAt.IsZero() {
		details["end_datetime"] = "end time is required"
	}
	if len(details) == 0 && !in.StartAt.Before(in.EndAt) {
		details["end_datetime"] = "end time must be after start time"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid election", details)
	}
	return nil
}

// NormalizeOptions trims names, requires at least one option and assigns ids "1".."n"
func NormalizeOptions(options []domain.Option) ([]domain.Option, error) {
	if len(options) == 0 {
		return nil, apperrors.NewValidationError("at least one option is required", nil)
	}

	out := make([]domain.Option, len(options))
	for i, opt := range options {
		name := strings.TrimSpace(opt.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("option name is required", map[string]interface{}{
				"index": i,
			})
		}
		out[i] = domain.Option{
			ID:          strconv.Itoa(i + 1),
			Name:        name,
			Description: strings.TrimSpace(opt.Description),
		}
	}
	return out, nil
}
