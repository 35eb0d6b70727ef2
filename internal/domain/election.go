package domain

import "time"

// Phase is an election's temporal state relative to now
type Phase string

const (
	PhasePending Phase = "pending"
	PhaseActive  Phase = "active"
	PhaseClosed  Phase = "closed"
)

// Label returns the user-facing name of the phase
func (p Phase) Label() string {
	switch p {
	case PhasePending:
		return "In Process"
	case PhaseActive:
		return "Ongoing"
	case PhaseClosed:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Election represents an election owned by an organizer
type Election struct {
	ID          ID        `json:"election_id"`
	OwnerID     ID        `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"election_code"`
	StartAt     time.Time `json:"start_datetime"`
	EndAt       time.Time `json:"end_datetime"`
	Options     []Option  `json:"options,omitempty"`
}

// Option is one choice on an election's ballot. ID is what a Ballot records.
type Option struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ElectionInput carries the organizer-editable fields of an election
type ElectionInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"start_datetime"`
	EndAt       time.Time `json:"end_datetime"`
}
