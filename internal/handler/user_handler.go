package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"voteguard/internal/container"
	"voteguard/internal/domain"
	"voteguard/internal/service"
	"voteguard/pkg/logger"
)

// UserHandler serves account registration
type UserHandler struct {
	users  *service.UserService
	logger *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(c *container.Container) *UserHandler {
	return &UserHandler{users: c.Services.Users, logger: c.GetLogger()}
}

// RegisterRoutes mounts the public account routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.With(withTimeout).Post("/register", h.Register)
}

// Register handles POST /register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := decodeJSON(w, r, &reg); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.users.Register(r.Context(), reg); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful"})
}
