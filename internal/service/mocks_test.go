package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"voteguard/internal/domain"
)

// MockBackend implements Backend with testify mocks
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListElections(ctx context.Context, ownerID string) ([]domain.Election, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Election), args.Error(1)
}

func (m *MockBackend) GetElection(ctx context.Context, ownerID, electionID string) (*domain.Election, error) {
	args := m.Called(ctx, ownerID, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Election), args.Error(1)
}

func (m *MockBackend) CreateElection(ctx context.Context, ownerID string, in domain.ElectionInput, code string) (domain.ID, error) {
	args := m.Called(ctx, ownerID, in, code)
	return args.Get(0).(domain.ID), args.Error(1)
}

func (m *MockBackend) UpdateElection(ctx context.Context, ownerID, electionID string, in domain.ElectionInput) error {
	return m.Called(ctx, ownerID, electionID, in).Error(0)
}

func (m *MockBackend) UpdateOptions(ctx context.Context, ownerID, electionID string, options []domain.Option) error {
	return m.Called(ctx, ownerID, electionID, options).Error(0)
}

func (m *MockBackend) DeleteElection(ctx context.Context, ownerID, electionID string) error {
	return m.Called(ctx, ownerID, electionID).Error(0)
}

func (m *MockBackend) ElectionCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) GenerateKeys(ctx context.Context, electionID string) error {
	return m.Called(ctx, electionID).Error(0)
}

func (m *MockBackend) ListAcceptedVoters(ctx context.Context, ownerID, electionID string) ([]domain.AcceptedVoter, error) {
	args := m.Called(ctx, ownerID, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AcceptedVoter), args.Error(1)
}

func (m *MockBackend) ListRequests(ctx context.Context, ownerID, electionID string) ([]domain.ParticipationRequest, error) {
	args := m.Called(ctx, ownerID, electionID)
	return args.Get(0).([]domain.ParticipationRequest), args.Error(1)
}

func (m *MockBackend) ApproveRequest(ctx context.Context, ownerID, electionID, voterID string) error {
	return m.Called(ctx, ownerID, electionID, voterID).Error(0)
}

func (m *MockBackend) RejectRequest(ctx context.Context, ownerID, electionID, voterID string) error {
	return m.Called(ctx, ownerID, electionID, voterID).Error(0)
}

func (m *MockBackend) ListJoinedElections(ctx context.Context, userID string) ([]domain.Election, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Election), args.Error(1)
}

func (m *MockBackend) RequestParticipation(ctx context.Context, userID, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}

func (m *MockBackend) GetBallotOptions(ctx context.Context, voterID, electionID string) (*domain.Election, error) {
	args := m.Called(ctx, voterID, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Election), args.Error(1)
}

func (m *MockBackend) GetVotingLimitation(ctx context.Context, voterID string) (*domain.VotingLimitation, error) {
	args := m.Called(ctx, voterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VotingLimitation), args.Error(1)
}

func (m *MockBackend) SubmitBallot(ctx context.Context, ballot domain.Ballot) error {
	return m.Called(ctx, ballot).Error(0)
}

func (m *MockBackend) GetResult(ctx context.Context, electionID string) (*domain.Tally, error) {
	args := m.Called(ctx, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tally), args.Error(1)
}

func (m *MockBackend) GenerateResult(ctx context.Context, ownerID, electionID string) (*domain.Tally, error) {
	args := m.Called(ctx, ownerID, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tally), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, reg domain.Registration) error {
	return m.Called(ctx, reg).Error(0)
}

var _ Backend = (*MockBackend)(nil)

// Fixed instants shared by the service tests
var (
	testNow   = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	testStart = testNow.Add(-time.Hour)
	testEnd   = testNow.Add(time.Hour)
)

func electionAt(id string, start, end time.Time) *domain.Election {
	return &domain.Election{
		ID:      domain.ID(id),
		OwnerID: "owner",
		Title:   "Election " + id,
		StartAt: start,
		EndAt:   end,
		Options: []domain.Option{{ID: "1", Name: "Ann"}, {ID: "2", Name: "Bo"}},
	}
}
