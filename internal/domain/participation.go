package domain

import (
	"encoding/json"
	"strings"
)

// RequestState is the organizer's decision on a ParticipationRequest
type RequestState string

const (
	RequestPending  RequestState = "pending"
	RequestApproved RequestState = "approved"
	RequestRejected RequestState = "rejected"
)

// Normalize lowercases and trims s; the election API is not consistent about case.
func (s RequestState) Normalize() RequestState {
	return RequestState(strings.ToLower(strings.TrimSpace(string(s))))
}

// UnmarshalJSON decodes a status string in any case
func (s *RequestState) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = ""
		return nil
	}
	*s = RequestState(*raw).Normalize()
	return nil
}

// ParticipationRequest is a voter's bid to join an election
type ParticipationRequest struct {
	VoterID    ID           `json:"voter_id"`
	ElectionID ID           `json:"election_id,omitempty"`
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Email      string       `json:"email"`
	State      RequestState `json:"status,omitempty"`
}

// AcceptedVoter is a voter whose request was approved
type AcceptedVoter struct {
	VoterID   ID     `json:"voter_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
}
