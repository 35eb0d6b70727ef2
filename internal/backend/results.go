package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"voteguard/internal/domain"
)

// number decodes a JSON number or a numeric string (DECIMAL columns arrive quoted)
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*n = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", string(data), err)
	}
	*n = number(f)
	return nil
}

type resultPayload struct {
	ElectionID domain.ID `json:"election_id"`
	Winner     struct {
		Name string `json:"name"`
	} `json:"winner"`
	TotalVotes     number `json:"total_votes"`
	WinningPercent number `json:"winning_percent"`
	Participation  number `json:"participation"`
}

type resultResponse struct {
	Result *resultPayload `json:"result"`
}

func (p *resultPayload) tally(electionID string) *domain.Tally {
	id := p.ElectionID
	if id == "" {
		id = domain.ID(electionID)
	}
	return &domain.Tally{
		ElectionID:     id,
		WinnerName:     p.Winner.Name,
		TotalVotes:     int(p.TotalVotes),
		WinningPercent: float64(p.WinningPercent),
		Participation:  float64(p.Participation),
	}
}

// GetResult returns the stored tally. A backend 404 means no result has been generated.
func (c *Client) GetResult(ctx context.Context, electionID string) (*domain.Tally, error) {
	var resp resultResponse
	if err := c.get(ctx, path("results", electionID), &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, nil
	}
	return resp.Result.tally(electionID), nil
}

// GenerateResult asks the backend to tally a closed election. The returned tally is
// nil when the backend only acknowledges generation.
func (c *Client) GenerateResult(ctx context.Context, ownerID, electionID string) (*domain.Tally, error) {
	var resp resultResponse
	if err := c.get(ctx, path("results", ownerID, electionID, "generate"), &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, nil
	}
	return resp.Result.tally(electionID), nil
}
