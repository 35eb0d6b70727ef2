package backend

import (
	"context"

	"voteguard/internal/domain"
)

type requestListResponse struct {
	Requests []domain.ParticipationRequest `json:"requests"`
}

type acceptedVotersResponse struct {
	AcceptedVoters []domain.AcceptedVoter `json:"acceptedVoters"`
}

type joinRequest struct {
	ElectionCode string `json:"election_code"`
}

type limitationResponse struct {
	Data domain.VotingLimitation `json:"data"`
}

// ListRequests returns the pending participation requests for an election in backend order
func (c *Client) ListRequests(ctx context.Context, ownerID, electionID string) ([]domain.ParticipationRequest, error) {
	var resp requestListResponse
	if err := c.get(ctx, path("voters", ownerID, "requests", electionID), &resp); err != nil {
		return nil, err
	}
	return resp.Requests, nil
}

// ApproveRequest approves one voter's request
func (c *Client) ApproveRequest(ctx context.Context, ownerID, electionID, voterID string) error {
	return c.put(ctx, path("voters", ownerID, "requests", electionID, "approve", voterID), nil, nil)
}

// RejectRequest rejects one voter's request
func (c *Client) RejectRequest(ctx context.Context, ownerID, electionID, voterID string) error {
	return c.put(ctx, path("voters", ownerID, "requests", electionID, "reject", voterID), nil, nil)
}

// ListAcceptedVoters returns the voters approved for an election
func (c *Client) ListAcceptedVoters(ctx context.Context, ownerID, electionID string) ([]domain.AcceptedVoter, error) {
	var resp acceptedVotersResponse
	if err := c.get(ctx, path("voters", ownerID, "accepted-voters", electionID), &resp); err != nil {
		return nil, err
	}
	return resp.AcceptedVoters, nil
}

// ListJoinedElections returns the elections userID has joined as a voter
func (c *Client) ListJoinedElections(ctx context.Context, userID string) ([]domain.Election, error) {
	var resp electionListResponse
	if err := c.get(ctx, path("voters", userID, "elections"), &resp); err != nil {
		return nil, err
	}
	return resp.Elections, nil
}

// RequestParticipation files a join request for the election identified by code
func (c *Client) RequestParticipation(ctx context.Context, userID, code string) error {
	return c.post(ctx, path("voters", userID, "request-participation"), joinRequest{ElectionCode: code}, nil)
}

// GetVotingLimitation returns the approval state and has-voted flag for a voter
func (c *Client) GetVotingLimitation(ctx context.Context, voterID string) (*domain.VotingLimitation, error) {
	var resp limitationResponse
	if err := c.get(ctx, path("voters", voterID, "limitation"), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
