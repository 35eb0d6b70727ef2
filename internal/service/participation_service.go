package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "voteguard/pkg/errors"
)

var errNoPendingRequest = apperrors.NewNotFoundError("no pending request for this voter")

// ParticipationService serves join requests on both sides: voters asking to join and
// organizers deciding on the queue.
type ParticipationService struct {
	backend     ParticipationBackend
	concurrency int
	logger      *zap.Logger
}

// NewParticipationService creates a new participation service
func NewParticipationService(backend ParticipationBackend, concurrency int, logger *zap.Logger) *ParticipationService {
	return &ParticipationService{
		backend:     backend,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Queue loads the election's pending requests
func (s *ParticipationService) Queue(ctx context.Context, ownerID, electionID string) (*Queue, error) {
	requests, err := s.backend.ListRequests(ctx, ownerID, electionID)
	if err != nil {
		return nil, err
	}
	return NewQueue(s.backend, ownerID, electionID, requests, s.concurrency, s.logger), nil
}

// Requests returns the queue view filtered by query
func (s *ParticipationService) Requests(ctx context.Context, ownerID, electionID, query string) (*RequestQueueView, error) {
	q, err := s.Queue(ctx, ownerID, electionID)
	if err != nil {
		return nil, err
	}
	q.Filter(query)
	return q.View(), nil
}

// Decide approves or rejects a single request and returns the remaining queue
func (s *ParticipationService) Decide(ctx context.Context, ownerID, electionID, voterID string, d Decision) (*RequestQueueView, error) {
	q, err := s.Queue(ctx, ownerID, electionID)
	if err != nil {
		return nil, err
	}

	if d == DecisionApprove {
		err = q.Approve(ctx, voterID)
	} else {
		err = q.Reject(ctx, voterID)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Participation request decided",
		zap.String("election_id", electionID),
		zap.String("voter_id", voterID),
		zap.String("decision", string(d)))

	return q.View(), nil
}

// DecideAll applies d to every request matching query. The view reflects only the
// items whose own call succeeded; err aggregates the failures.
func (s *ParticipationService) DecideAll(ctx context.Context, ownerID, electionID, query string, d Decision) (*BatchResult, *RequestQueueView, error) {
	q, err := s.Queue(ctx, ownerID, electionID)
	if err != nil {
		return nil, nil, err
	}
	q.Filter(query)

	var result *BatchResult
	if d == DecisionApprove {
		result, err = q.ApproveAll(ctx)
	} else {
		result, err = q.RejectAll(ctx)
	}
	return result, q.View(), err
}

// Join files a participation request for the election with the given code
func (s *ParticipationService) Join(ctx context.Context, userID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperrors.NewValidationError("election code is required", map[string]interface{}{
			"election_code": "required",
		})
	}

	if err := s.backend.RequestParticipation(ctx, userID, code); err != nil {
		s.logger.Info("Join request refused", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("Join request filed", zap.String("user_id", userID))
	return nil
}
