package backend

import (
	"context"

	"voteguard/internal/domain"
)

type ballotOptionsResponse struct {
	Election domain.Election `json:"election"`
	Options  []domain.Option `json:"options"`
}

type submitBallotRequest struct {
	Vote string `json:"vote"`
}

// GetBallotOptions returns the election a voter votes in, with its options
func (c *Client) GetBallotOptions(ctx context.Context, voterID, electionID string) (*domain.Election, error) {
	var resp ballotOptionsResponse
	if err := c.get(ctx, path("ballots", voterID, electionID, "options"), &resp); err != nil {
		return nil, err
	}
	election := resp.Election
	if len(resp.Options) > 0 {
		election.Options = resp.Options
	}
	return &election, nil
}

// SubmitBallot records a voter's choice. The backend refuses a second ballot.
func (c *Client) SubmitBallot(ctx context.Context, ballot domain.Ballot) error {
	p := path("ballots", "submit", ballot.VoterID.String(), ballot.ElectionID.String())
	return c.post(ctx, p, submitBallotRequest{Vote: ballot.OptionID}, nil)
}
