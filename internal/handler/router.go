package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"voteguard/internal/container"
	"voteguard/internal/middleware"
	"voteguard/pkg/errors"
)

// NewRouter configures and returns the HTTP router
func NewRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	healthHandler := NewHealthHandler(c)
	organizerHandler := NewOrganizerHandler(c)
	voterHandler := NewVoterHandler(c)
	resultHandler := NewResultHandler(c)
	userHandler := NewUserHandler(c)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		userHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(c.Auth, log))

			organizerHandler.RegisterRoutes(r)
			voterHandler.RegisterRoutes(r)
			resultHandler.RegisterRoutes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, log, errors.NewNotFoundError("Endpoint not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		appErr := errors.NewValidationError("Method not allowed", nil)
		appErr.StatusCode = http.StatusMethodNotAllowed
		respondError(w, req, log, appErr)
	})

	log.Info("Router configured successfully")
	return r
}
