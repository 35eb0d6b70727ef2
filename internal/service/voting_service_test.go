package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voteguard/internal/domain"
	"voteguard/internal/lifecycle"
	apperrors "voteguard/pkg/errors"
)

func newVotingService(b *MockBackend, now time.Time) *VotingService {
	clock := clockwork.NewFakeClockAt(now)
	results := NewResultPresenter(b, b, NewCacheService(nil, zap.NewNop()), nil, clock, zap.NewNop())
	return NewVotingService(b, results, NewLocalInflight(), clock, zap.NewNop())
}

func limitation(state domain.RequestState, hasVoted bool) *domain.VotingLimitation {
	return &domain.VotingLimitation{
		VoterID:      "5",
		ElectionID:   "9",
		RequestState: state,
		HasVoted:     domain.FlexBool(hasVoted),
	}
}

func otherElection(l *domain.VotingLimitation) *domain.VotingLimitation {
	l.ElectionID = "10"
	return l
}

func TestVotingService_View(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		lim        *domain.VotingLimitation
		wantPhase  domain.Phase
		wantReason lifecycle.Reason
	}{
		{"eligible", testStart, testEnd, limitation(domain.RequestApproved, false), domain.PhaseActive, ""},
		{"missing status counts as approved", testStart, testEnd, limitation("", false), domain.PhaseActive, ""},
		{"already voted beats pending phase", testEnd, testEnd.Add(time.Hour), limitation(domain.RequestApproved, true), domain.PhasePending, lifecycle.ReasonAlreadyVoted},
		{"not started", testEnd, testEnd.Add(time.Hour), limitation(domain.RequestApproved, false), domain.PhasePending, lifecycle.ReasonNotStarted},
		{"not approved", testStart, testEnd, limitation(domain.RequestPending, false), domain.PhaseActive, lifecycle.ReasonNotApproved},
		{"approved in title case", testStart, testEnd, limitation("Approved", false), domain.PhaseActive, ""},
		{"limitation for another election", testStart, testEnd, otherElection(limitation(domain.RequestApproved, true)), domain.PhaseActive, lifecycle.ReasonNotApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(MockBackend)
			b.On("GetBallotOptions", mock.Anything, "5", "9").Return(electionAt("9", tt.start, tt.end), nil)
			b.On("GetVotingLimitation", mock.Anything, "5").Return(tt.lim, nil)

			view, err := newVotingService(b, testNow).View(context.Background(), "5", "9")
			require.NoError(t, err)

			assert.Equal(t, tt.wantPhase, view.Phase)
			assert.Equal(t, tt.wantReason == "", view.Eligibility.Eligible)
			assert.Equal(t, tt.wantReason, view.Eligibility.Reason)
			assert.Len(t, view.Options, 2)
			assert.Nil(t, view.Result)
		})
	}
}

func TestVotingService_ViewClosedIncludesResult(t *testing.T) {
	b := new(MockBackend)
	b.On("GetBallotOptions", mock.Anything, "5", "9").Return(electionAt("9", testStart.Add(-time.Hour), testStart), nil)
	b.On("GetVotingLimitation", mock.Anything, "5").Return(limitation(domain.RequestApproved, true), nil)
	b.On("GetResult", mock.Anything, "9").Return(&domain.Tally{ElectionID: "9", WinnerName: "Bo", TotalVotes: 1234, WinningPercent: 50.9, Participation: 99.99}, nil)

	view, err := newVotingService(b, testNow).View(context.Background(), "5", "9")
	require.NoError(t, err)

	require.NotNil(t, view.Result)
	assert.Equal(t, lifecycle.Countdown{}, view.Countdown)
	assert.Equal(t, 50, view.Result.WinningPercent)
	assert.Equal(t, 99, view.Result.Participation)
	assert.Equal(t, "1,234 votes", view.Result.TotalVotesText)
}

func TestVotingService_SubmitThenAlreadyVoted(t *testing.T) {
	b := new(MockBackend)
	b.On("GetBallotOptions", mock.Anything, "5", "9").Return(electionAt("9", testStart, testEnd), nil)
	b.On("GetVotingLimitation", mock.Anything, "5").Return(limitation(domain.RequestApproved, false), nil).Once()
	b.On("GetVotingLimitation", mock.Anything, "5").Return(limitation(domain.RequestApproved, true), nil).Once()
	b.On("SubmitBallot", mock.Anything, domain.Ballot{VoterID: "5", ElectionID: "9", OptionID: "2"}).Return(nil).Once()

	view, err := newVotingService(b, testNow).Submit(context.Background(), "5", "9", "2")
	require.NoError(t, err)

	assert.False(t, view.Eligibility.Eligible)
	assert.Equal(t, lifecycle.ReasonAlreadyVoted, view.Eligibility.Reason)
	b.AssertExpectations(t)
}

func TestVotingService_SubmitRefusedLocally(t *testing.T) {
	b := new(MockBackend)
	b.On("GetBallotOptions", mock.Anything, "5", "9").Return(electionAt("9", testEnd, testEnd.Add(time.Hour)), nil)
	b.On("GetVotingLimitation", mock.Anything, "5").Return(limitation(domain.RequestApproved, false), nil)

	_, err := newVotingService(b, testNow).Submit(context.Background(), "5", "9", "1")

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, lifecycle.ReasonNotStarted, appErr.Details["reason"])
	b.AssertNotCalled(t, "SubmitBallot", mock.Anything, mock.Anything)
}

func TestVotingService_SubmitWithForeignLimitation(t *testing.T) {
	b := new(MockBackend)
	b.On("GetBallotOptions", mock.Anything, "5", "9").Return(electionAt("9", testStart, testEnd), nil)
	b.On("GetVotingLimitation", mock.Anything, "5").Return(otherElection(limitation(domain.RequestApproved, false)), nil)

	_, err := newVotingService(b, testNow).Submit(context.Background(), "5", "9", "1")

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, lifecycle.ReasonNotApproved, appErr.Details["reason"])
	b.AssertNotCalled(t, "SubmitBallot", mock.Anything, mock.Anything)
}

func TestVotingService_SubmitUnknownOption(t *testing.T) {
	b := new(MockBackend)
	b.On("GetBallotOptions", mock.Anything, "5", "9").Return(electionAt("9", testStart, testEnd), nil)
	b.On("GetVotingLimitation", mock.Anything, "5").Return(limitation(domain.RequestApproved, false), nil)

	_, err := newVotingService(b, testNow).Submit(context.Background(), "5", "9", "7")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = newVotingService(b, testNow).Submit(context.Background(), "5", "9", "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	b.AssertNotCalled(t, "SubmitBallot", mock.Anything, mock.Anything)
}

func TestVotingService_StaleStateResync(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			b := new(MockBackend)
			b.On("GetBallotOptions", mock.Anything, "5", "9").Return(electionAt("9", testStart, testEnd), nil)
			b.On("GetVotingLimitation", mock.Anything, "5").Return(limitation(domain.RequestApproved, false), nil).Once()
			b.On("GetVotingLimitation", mock.Anything, "5").Return(limitation(domain.RequestApproved, true), nil).Once()
			b.On("SubmitBallot", mock.Anything, mock.Anything).Return(apperrors.NewBackendRejection("Voter has already voted", status))

			_, err := newVotingService(b, testNow).Submit(context.Background(), "5", "9", "1")

			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrorTypeStaleState, appErr.Type)
			assert.Equal(t, http.StatusConflict, appErr.StatusCode)
			assert.Equal(t, "Voter has already voted", appErr.Message)

			resynced, ok := appErr.Details["view"].(*BallotView)
			require.True(t, ok)
			assert.Equal(t, lifecycle.ReasonAlreadyVoted, resynced.Eligibility.Reason)
		})
	}
}

func TestVotingService_OtherRejectionPassesThrough(t *testing.T) {
	b := new(MockBackend)
	b.On("GetBallotOptions", mock.Anything, "5", "9").Return(electionAt("9", testStart, testEnd), nil)
	b.On("GetVotingLimitation", mock.Anything, "5").Return(limitation(domain.RequestApproved, false), nil)
	b.On("SubmitBallot", mock.Anything, mock.Anything).Return(apperrors.NewBackendRejection("bad vote", http.StatusBadRequest))

	_, err := newVotingService(b, testNow).Submit(context.Background(), "5", "9", "1")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeBackendRejection))
	b.AssertNumberOfCalls(t, "GetVotingLimitation", 1)
}

func TestVotingService_DuplicateSubmission(t *testing.T) {
	b := new(MockBackend)
	svc := newVotingService(b, testNow)

	release, err := svc.inflight.Acquire(context.Background(), "ballot", "5:9")
	require.NoError(t, err)
	defer release()

	_, err = svc.Submit(context.Background(), "5", "9", "1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDuplicate))
	b.AssertNotCalled(t, "GetBallotOptions", mock.Anything, mock.Anything, mock.Anything)
}
