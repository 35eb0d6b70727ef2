package domain

// VotingLimitation holds the backend's record of what a voter may do in their election
type VotingLimitation struct {
	VoterID      ID           `json:"voter_id"`
	ElectionID   ID           `json:"election_id"`
	RequestState RequestState `json:"status"`
	HasVoted     FlexBool     `json:"has_voted"`

	// EligibleToVote is the backend's own verdict. It is kept for logging only;
	// eligibility shown to the voter is always recomputed locally.
	EligibleToVote bool `json:"isEligibleToVote"`
}

// State returns the request state, treating an absent status as approved since
// voter records are only issued for approved requests.
func (l VotingLimitation) State() RequestState {
	state := l.RequestState.Normalize()
	if state == "" {
		return RequestApproved
	}
	return state
}

// Ballot is a voter's single recorded choice for an election
type Ballot struct {
	VoterID    ID     `json:"voter_id"`
	ElectionID ID     `json:"election_id"`
	OptionID   string `json:"vote"`
}
