package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"voteguard/internal/container"
	"voteguard/internal/lifecycle"
	"voteguard/internal/middleware"
	"voteguard/internal/service"
	"voteguard/pkg/logger"
)

// VoterHandler serves a voter's joined elections, join requests and ballots
type VoterHandler struct {
	directory     *service.Directory
	participation *service.ParticipationService
	voting        *service.VotingService
	watcher       *lifecycle.Watcher
	logger        *logger.Logger
}

// NewVoterHandler creates a new voter handler
func NewVoterHandler(c *container.Container) *VoterHandler {
	return &VoterHandler{
		directory:     c.Services.Directory,
		participation: c.Services.Participation,
		voting:        c.Services.Voting,
		watcher:       c.Watcher,
		logger:        c.GetLogger(),
	}
}

// RegisterRoutes mounts the voter and ballot routes
func (h *VoterHandler) RegisterRoutes(r chi.Router) {
	r.Route("/voters/{userId}", func(r chi.Router) {
		r.Use(middleware.RequireOwner("userId", h.logger), withTimeout)

		r.Get("/elections", h.List)
		r.Post("/join", h.Join)
	})

	// voterId is the election-scoped voter record, so ownership is enforced by the
	// election API through the forwarded session.
	r.Route("/ballots/{voterId}/{electionId}", func(r chi.Router) {
		r.Get("/countdown", h.Countdown)

		r.Group(func(r chi.Router) {
			r.Use(withTimeout)

			r.Get("/", h.Ballot)
			r.Post("/", h.Submit)
		})
	})
}

type joinRequest struct {
	ElectionCode string `json:"election_code"`
}

type submitRequest struct {
	Vote string `json:"vote"`
}

// List handles GET /voters/{userId}/elections?tab=
func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	tab, err := service.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	view, err := h.directory.Joined(r.Context(), chi.URLParam(r, "userId"), tab)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Join handles POST /voters/{userId}/join
func (h *VoterHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.participation.Join(r.Context(), chi.URLParam(r, "userId"), req.ElectionCode); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"message": "Participation request sent"})
}

// Ballot handles GET /ballots/{voterId}/{electionId}
func (h *VoterHandler) Ballot(w http.ResponseWriter, r *http.Request) {
	view, err := h.voting.View(r.Context(), chi.URLParam(r, "voterId"), chi.URLParam(r, "electionId"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Submit handles POST /ballots/{voterId}/{electionId} and returns the re-fetched ballot view
func (h *VoterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	view, err := h.voting.Submit(r.Context(), chi.URLParam(r, "voterId"), chi.URLParam(r, "electionId"), req.Vote)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// Countdown handles GET /ballots/{voterId}/{electionId}/countdown (SSE)
func (h *VoterHandler) Countdown(w http.ResponseWriter, r *http.Request) {
	election, err := h.voting.Election(r.Context(), chi.URLParam(r, "voterId"), chi.URLParam(r, "electionId"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	streamCountdown(w, r, h.watcher, election.StartAt, election.EndAt, h.logger)
}
