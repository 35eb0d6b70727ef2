package domain

// Result is the backend-computed tally summary for a closed election.
// Percentages are already floored for display.
type Result struct {
	ElectionID     ID     `json:"election_id"`
	WinnerName     string `json:"winner"`
	TotalVotes     int    `json:"total_votes"`
	WinningPercent int    `json:"winning_percent"`
	Participation  int    `json:"participation"` // percent of accepted voters who cast a ballot
}

// Tally is the backend's exact result record before display rounding
type Tally struct {
	ElectionID     ID
	WinnerName     string
	TotalVotes     int
	WinningPercent float64
	Participation  float64
}
