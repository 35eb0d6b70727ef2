package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voteguard/internal/domain"
)

func TestCanVote(t *testing.T) {
	tests := []struct {
		name     string
		phase    domain.Phase
		state    domain.RequestState
		hasVoted bool
		want     Eligibility
	}{
		{
			name:  "approved voter in active election",
			phase: domain.PhaseActive,
			state: domain.RequestApproved,
			want:  Eligibility{Eligible: true},
		},
		{
			name:  "approved in title case",
			phase: domain.PhaseActive,
			state: "Approved",
			want:  Eligibility{Eligible: true},
		},
		{
			name:     "already voted wins over not started",
			phase:    domain.PhasePending,
			state:    domain.RequestApproved,
			hasVoted: true,
			want:     Eligibility{Reason: ReasonAlreadyVoted, Message: ReasonAlreadyVoted.Message()},
		},
		{
			name:     "already voted wins over closed",
			phase:    domain.PhaseClosed,
			state:    domain.RequestPending,
			hasVoted: true,
			want:     Eligibility{Reason: ReasonAlreadyVoted, Message: ReasonAlreadyVoted.Message()},
		},
		{
			name:  "not started wins over not approved",
			phase: domain.PhasePending,
			state: domain.RequestPending,
			want:  Eligibility{Reason: ReasonNotStarted, Message: ReasonNotStarted.Message()},
		},
		{
			name:  "closed wins over not approved",
			phase: domain.PhaseClosed,
			state: domain.RequestRejected,
			want:  Eligibility{Reason: ReasonClosed, Message: ReasonClosed.Message()},
		},
		{
			name:  "pending request in active election",
			phase: domain.PhaseActive,
			state: domain.RequestPending,
			want:  Eligibility{Reason: ReasonNotApproved, Message: ReasonNotApproved.Message()},
		},
		{
			name:  "rejected request in active election",
			phase: domain.PhaseActive,
			state: domain.RequestRejected,
			want:  Eligibility{Reason: ReasonNotApproved, Message: ReasonNotApproved.Message()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanVote(tt.phase, tt.state, tt.hasVoted))
		})
	}
}

func TestCanVote_EligibleImpliesAllConditions(t *testing.T) {
	phases := []domain.Phase{domain.PhasePending, domain.PhaseActive, domain.PhaseClosed}
	states := []domain.RequestState{domain.RequestPending, domain.RequestApproved, domain.RequestRejected}

	for _, p := range phases {
		for _, s := range states {
			for _, voted := range []bool{false, true} {
				got := CanVote(p, s, voted)
				want := p == domain.PhaseActive && s == domain.RequestApproved && !voted
				assert.Equal(t, want, got.Eligible, "phase=%s state=%s voted=%v", p, s, voted)
				if !got.Eligible {
					assert.NotEmpty(t, got.Reason)
					assert.NotEmpty(t, got.Message)
				}
			}
		}
	}
}
