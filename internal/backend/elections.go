package backend

import (
	"context"
	"time"

	"voteguard/internal/domain"
)

type electionListResponse struct {
	Elections []domain.Election `json:"elections"`
}

type electionResponse struct {
	Election domain.Election `json:"election"`
}

type createElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"start_datetime"`
	EndAt       time.Time `json:"end_datetime"`
	Code        string    `json:"election_code"`
}

type createElectionResponse struct {
	ElectionID domain.ID `json:"electionId"`
}

type optionsRequest struct {
	Options []domain.Option `json:"options"`
}

type codeExistsResponse struct {
	Exists bool `json:"exists"`
}

// ListElections returns the elections owned by ownerID
func (c *Client) ListElections(ctx context.Context, ownerID string) ([]domain.Election, error) {
	var resp electionListResponse
	if err := c.get(ctx, path("elections", ownerID), &resp); err != nil {
		return nil, err
	}
	return resp.Elections, nil
}

// GetElection returns one election with its options
func (c *Client) GetElection(ctx context.Context, ownerID, electionID string) (*domain.Election, error) {
	var resp electionResponse
	if err := c.get(ctx, path("elections", ownerID, electionID), &resp); err != nil {
		return nil, err
	}
	return &resp.Election, nil
}

// CreateElection creates an election under code and returns its id
func (c *Client) CreateElection(ctx context.Context, ownerID string, in domain.ElectionInput, code string) (domain.ID, error) {
	req := createElectionRequest{
		Title:       in.Title,
		Description: in.Description,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
		Code:        code,
	}

	var resp createElectionResponse
	if err := c.post(ctx, path("elections", ownerID, "election"), req, &resp); err != nil {
		return "", err
	}
	return resp.ElectionID, nil
}

// UpdateElection replaces the editable fields of an election
func (c *Client) UpdateElection(ctx context.Context, ownerID, electionID string, in domain.ElectionInput) error {
	return c.put(ctx, path("elections", ownerID, electionID), in, nil)
}

// UpdateOptions replaces an election's ballot options
func (c *Client) UpdateOptions(ctx context.Context, ownerID, electionID string, options []domain.Option) error {
	return c.put(ctx, path("elections", ownerID, electionID), optionsRequest{Options: options}, nil)
}

// DeleteElection deletes an election
func (c *Client) DeleteElection(ctx context.Context, ownerID, electionID string) error {
	return c.delete(ctx, path("elections", ownerID, electionID))
}

// ElectionCodeExists reports whether code is already taken
func (c *Client) ElectionCodeExists(ctx context.Context, code string) (bool, error) {
	var resp codeExistsResponse
	if err := c.get(ctx, path("elections", "check-code", code), &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// GenerateKeys asks the backend to generate the election's key material
func (c *Client) GenerateKeys(ctx context.Context, electionID string) error {
	return c.post(ctx, path("keys", electionID, "generate"), nil, nil)
}
