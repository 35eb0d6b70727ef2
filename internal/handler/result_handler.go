package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"voteguard/internal/container"
	"voteguard/internal/service"
	"voteguard/pkg/logger"
)

// ResultHandler serves stored election results
type ResultHandler struct {
	results *service.ResultPresenter
	logger  *logger.Logger
}

// NewResultHandler creates a new result handler
func NewResultHandler(c *container.Container) *ResultHandler {
	return &ResultHandler{results: c.Services.Results, logger: c.GetLogger()}
}

// RegisterRoutes mounts the result routes
func (h *ResultHandler) RegisterRoutes(r chi.Router) {
	r.With(withTimeout).Get("/results/{electionId}", h.Get)
}

// Get handles GET /results/{electionId}. Results never change once generated, so the
// response carries an ETag.
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.Request(r.Context(), chi.URLParam(r, "electionId"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	etag := generateETag(result)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, max-age=60")
	respondJSON(w, http.StatusOK, result)
}
