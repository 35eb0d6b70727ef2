package lifecycle

import "voteguard/internal/domain"

// Reason explains why a voter may not cast a ballot
type Reason string

const (
	ReasonAlreadyVoted Reason = "already_voted"
	ReasonNotStarted   Reason = "not_started"
	ReasonClosed       Reason = "closed"
	ReasonNotApproved  Reason = "not_approved"
)

var reasonMessages = map[Reason]string{
	ReasonAlreadyVoted: "You have already voted in this election.",
	ReasonNotStarted:   "The election has not started yet.",
	ReasonClosed:       "The election has ended.",
	ReasonNotApproved:  "Your participation request has not been approved.",
}

// Message returns the user-facing text for r
func (r Reason) Message() string {
	return reasonMessages[r]
}

// Eligibility is the gate's verdict for one voter at one instant
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   Reason `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
}

// CanVote decides whether a voter may submit a ballot now. Reasons are checked in
// priority order: already voted, not started, closed, not approved.
//
// The verdict is advisory. The backend's answer to a ballot submission wins.
func CanVote(phase domain.Phase, state domain.RequestState, hasVoted bool) Eligibility {
	var reason Reason
	switch {
	case hasVoted:
		reason = ReasonAlreadyVoted
	case phase == domain.PhasePending:
		reason = ReasonNotStarted
	case phase == domain.PhaseClosed:
		reason = ReasonClosed
	case state.Normalize() != domain.RequestApproved:
		reason = ReasonNotApproved
	default:
		return Eligibility{Eligible: true}
	}
	return Eligibility{Reason: reason, Message: reason.Message()}
}
