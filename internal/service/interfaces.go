package service

import (
	"context"

	"voteguard/internal/domain"
)

// ElectionBackend defines the election API operations used for organizer election management
type ElectionBackend interface {
	ListElections(ctx context.Context, ownerID string) ([]domain.Election, error)
	GetElection(ctx context.Context, ownerID, electionID string) (*domain.Election, error)
	CreateElection(ctx context.Context, ownerID string, in domain.ElectionInput, code string) (domain.ID, error)
	UpdateElection(ctx context.Context, ownerID, electionID string, in domain.ElectionInput) error
	UpdateOptions(ctx context.Context, ownerID, electionID string, options []domain.Option) error
	DeleteElection(ctx context.Context, ownerID, electionID string) error

	// ElectionCodeExists reports whether an election already uses code
	ElectionCodeExists(ctx context.Context, code string) (bool, error)

	// GenerateKeys triggers key generation. Key material never passes through this service.
	GenerateKeys(ctx context.Context, electionID string) error

	ListAcceptedVoters(ctx context.Context, ownerID, electionID string) ([]domain.AcceptedVoter, error)
}

// ParticipationBackend defines the election API operations behind join requests
type ParticipationBackend interface {
	ListRequests(ctx context.Context, ownerID, electionID string) ([]domain.ParticipationRequest, error)
	ApproveRequest(ctx context.Context, ownerID, electionID, voterID string) error
	RejectRequest(ctx context.Context, ownerID, electionID, voterID string) error
	ListJoinedElections(ctx context.Context, userID string) ([]domain.Election, error)
	RequestParticipation(ctx context.Context, userID, code string) error
}

// BallotBackend defines the election API operations used by voters
type BallotBackend interface {
	GetBallotOptions(ctx context.Context, voterID, electionID string) (*domain.Election, error)
	GetVotingLimitation(ctx context.Context, voterID string) (*domain.VotingLimitation, error)
	SubmitBallot(ctx context.Context, ballot domain.Ballot) error
}

// ResultBackend defines the election API operations for tallies
type ResultBackend interface {
	GetResult(ctx context.Context, electionID string) (*domain.Tally, error)
	GenerateResult(ctx context.Context, ownerID, electionID string) (*domain.Tally, error)
}

// UserBackend defines the election API account operations
type UserBackend interface {
	Register(ctx context.Context, reg domain.Registration) error
}

// Backend is the full election API surface
type Backend interface {
	ElectionBackend
	ParticipationBackend
	BallotBackend
	ResultBackend
	UserBackend
}

// InflightGuard refuses a second concurrent run of the same action on the same subject
type InflightGuard interface {
	// Acquire returns a release func, or a duplicate_submission error when the action is
	// already in flight.
	Acquire(ctx context.Context, action, subject string) (release func(), err error)
	// Held reports whether the action is currently in flight.
	Held(ctx context.Context, action, subject string) (bool, error)
}

// Services aggregates all services
type Services struct {
	Elections     *ElectionService
	Participation *ParticipationService
	Directory     *Directory
	Voting        *VotingService
	Results       *ResultPresenter
	Users         *UserService
}
