package service

import (
	"time"

	"voteguard/internal/domain"
	"voteguard/internal/lifecycle"
)

// ElectionSummary is one row of a directory listing
type ElectionSummary struct {
	domain.Election
	Phase          domain.Phase `json:"phase"`
	Label          string       `json:"label"`
	AcceptedVoters *int         `json:"accepted_voters,omitempty"`
}

// DirectoryView is the elections page, filtered by tab
type DirectoryView struct {
	Tab       Tab               `json:"tab"`
	Now       time.Time         `json:"now"`
	Elections []ElectionSummary `json:"elections"`
}

// ElectionDetailView is the organizer's page for one election
type ElectionDetailView struct {
	Election       domain.Election        `json:"election"`
	Phase          domain.Phase           `json:"phase"`
	Label          string                 `json:"label"`
	Countdown      lifecycle.Countdown    `json:"countdown"`
	AcceptedVoters []domain.AcceptedVoter `json:"accepted_voters"`
	Result         *ResultView            `json:"result,omitempty"`
	CanGenerate    bool                   `json:"can_generate"`
}

// RequestQueueView is the organizer's pending-requests page
type RequestQueueView struct {
	ElectionID   string                        `json:"election_id"`
	Query        string                        `json:"query,omitempty"`
	TotalPending int                           `json:"total_pending"`
	Requests     []domain.ParticipationRequest `json:"requests"`
}

// BallotView is the voter's page for one election
type BallotView struct {
	Election    domain.Election       `json:"election"`
	Options     []domain.Option       `json:"options"`
	Phase       domain.Phase          `json:"phase"`
	Label       string                `json:"label"`
	Countdown   lifecycle.Countdown   `json:"countdown"`
	Eligibility lifecycle.Eligibility `json:"eligibility"`
	Result      *ResultView           `json:"result,omitempty"`
}

// ResultView is a result plus its display strings
type ResultView struct {
	domain.Result
	TotalVotesText     string `json:"total_votes_text"`
	WinningPercentText string `json:"winning_percent_text"`
	ParticipationText  string `json:"participation_text"`
}
