package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"voteguard/internal/container"
	"voteguard/internal/domain"
	"voteguard/internal/lifecycle"
	"voteguard/internal/middleware"
	"voteguard/internal/service"
	"voteguard/pkg/errors"
	"voteguard/pkg/logger"
)

// OrganizerHandler serves an organizer's elections, request queue and results
type OrganizerHandler struct {
	elections     *service.ElectionService
	directory     *service.Directory
	participation *service.ParticipationService
	results       *service.ResultPresenter
	watcher       *lifecycle.Watcher
	logger        *logger.Logger
}

// NewOrganizerHandler creates a new organizer handler
func NewOrganizerHandler(c *container.Container) *OrganizerHandler {
	return &OrganizerHandler{
		elections:     c.Services.Elections,
		directory:     c.Services.Directory,
		participation: c.Services.Participation,
		results:       c.Services.Results,
		watcher:       c.Watcher,
		logger:        c.GetLogger(),
	}
}

// RegisterRoutes mounts the organizer routes. They require an authenticated session
// whose user owns {userId}.
func (h *OrganizerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/organizers/{userId}/elections", func(r chi.Router) {
		r.Use(middleware.RequireOwner("userId", h.logger))

		r.Get("/{electionId}/countdown", h.Countdown)

		r.Group(func(r chi.Router) {
			r.Use(withTimeout)

			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{electionId}", h.Detail)
			r.Put("/{electionId}", h.Update)
			r.Put("/{electionId}/options", h.UpdateOptions)
			r.Delete("/{electionId}", h.Delete)
			r.Post("/{electionId}/keys", h.GenerateKeys)
			r.Post("/{electionId}/results/generate", h.GenerateResults)

			r.Get("/{electionId}/requests", h.ListRequests)
			r.Put("/{electionId}/requests/{voterId}/approve", h.decide(service.DecisionApprove))
			r.Put("/{electionId}/requests/{voterId}/reject", h.decide(service.DecisionReject))
			r.Post("/{electionId}/requests/approve-all", h.decideAll(service.DecisionApprove))
			r.Post("/{electionId}/requests/reject-all", h.decideAll(service.DecisionReject))
		})
	})
}

// electionRequest is the create/update body. Times may omit the zone.
type electionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartAt     string `json:"start_datetime"`
	EndAt       string `json:"end_datetime"`
}

func (req electionRequest) input() (domain.ElectionInput, error) {
	start, err := parseDateTime(req.StartAt)
	if err != nil {
		return domain.ElectionInput{}, errors.NewValidationError("Invalid start time", map[string]interface{}{
			"start_datetime": err.Error(),
		})
	}
	end, err := parseDateTime(req.EndAt)
	if err != nil {
		return domain.ElectionInput{}, errors.NewValidationError("Invalid end time", map[string]interface{}{
			"end_datetime": err.Error(),
		})
	}
	return domain.ElectionInput{
		Title:       req.Title,
		Description: req.Description,
		StartAt:     start,
		EndAt:       end,
	}, nil
}

type optionsRequest struct {
	Options []domain.Option `json:"options"`
}

type batchResponse struct {
	Result *service.BatchResult      `json:"result"`
	Queue  *service.RequestQueueView `json:"queue"`
	Errors []string                  `json:"errors,omitempty"`
}

// List handles GET /organizers/{userId}/elections?tab=
func (h *OrganizerHandler) List(w http.ResponseWriter, r *http.Request) {
	tab, err := service.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	view, err := h.directory.Owned(r.Context(), chi.URLParam(r, "userId"), tab)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Create handles POST /organizers/{userId}/elections
func (h *OrganizerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req electionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	election, err := h.elections.Create(r.Context(), chi.URLParam(r, "userId"), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, election)
}

// Detail handles GET /organizers/{userId}/elections/{electionId}
func (h *OrganizerHandler) Detail(w http.ResponseWriter, r *http.Request) {
	view, err := h.elections.Detail(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "electionId"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Update handles PUT /organizers/{userId}/elections/{electionId} and returns the refreshed detail
func (h *OrganizerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req electionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	ownerID, electionID := chi.URLParam(r, "userId"), chi.URLParam(r, "electionId")
	if err := h.elections.Update(r.Context(), ownerID, electionID, in); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	view, err := h.elections.Detail(r.Context(), ownerID, electionID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// UpdateOptions handles PUT /organizers/{userId}/elections/{electionId}/options
func (h *OrganizerHandler) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	options, err := h.elections.UpdateOptions(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "electionId"), req.Options)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, optionsRequest{Options: options})
}

// Delete handles DELETE /organizers/{userId}/elections/{electionId}
func (h *OrganizerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.elections.Delete(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "electionId")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateKeys handles POST /organizers/{userId}/elections/{electionId}/keys
func (h *OrganizerHandler) GenerateKeys(w http.ResponseWriter, r *http.Request) {
	if err := h.elections.GenerateKeys(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "electionId")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"message": "Key generation started"})
}

// GenerateResults handles POST /organizers/{userId}/elections/{electionId}/results/generate
func (h *OrganizerHandler) GenerateResults(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Generate(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "electionId"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Countdown handles GET /organizers/{userId}/elections/{electionId}/countdown (SSE)
func (h *OrganizerHandler) Countdown(w http.ResponseWriter, r *http.Request) {
	election, err := h.elections.Get(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "electionId"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	streamCountdown(w, r, h.watcher, election.StartAt, election.EndAt, h.logger)
}

// ListRequests handles GET /organizers/{userId}/elections/{electionId}/requests?q=
func (h *OrganizerHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	view, err := h.participation.Requests(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "electionId"), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *OrganizerHandler) decide(d service.Decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.participation.Decide(r.Context(),
			chi.URLParam(r, "userId"), chi.URLParam(r, "electionId"), chi.URLParam(r, "voterId"), d)
		if err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

// decideAll applies d to every visible request. Partial failure answers 207 with the
// per-item outcomes and the queue as it stands.
func (h *OrganizerHandler) decideAll(d service.Decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, view, err := h.participation.DecideAll(r.Context(),
			chi.URLParam(r, "userId"), chi.URLParam(r, "electionId"), r.URL.Query().Get("q"), d)
		if result == nil {
			respondError(w, r, h.logger, err)
			return
		}

		status := http.StatusOK
		resp := batchResponse{Result: result, Queue: view}
		if err != nil {
			status = http.StatusMultiStatus
			for _, o := range result.Outcomes {
				if !o.Succeeded {
					resp.Errors = append(resp.Errors, o.Error)
				}
			}
			h.logger.WithError(err).WithField("failed", result.Failed).Warn("Bulk decision partially failed")
		}
		respondJSON(w, status, resp)
	}
}
