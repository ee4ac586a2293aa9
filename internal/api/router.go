package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/api/handlers"
	"trip-optimizer-service/internal/ports"
	"trip-optimizer-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.TripRepository,
	optimizer *services.Optimizer,
	applier *services.AdaptationApplier,
	log zerolog.Logger,
) http.Handler {
	tripHandler := &handlers.TripHandler{Repo: repo, Log: log}
	optimizeHandler := &handlers.OptimizeHandler{
		Repo:      repo,
		Optimizer: optimizer,
		Applier:   applier,
		Log:       log,
	}

	r := chi.NewRouter()
	r.Use(requestLogger(log))

	r.Get("/health", handlers.Health)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", tripHandler.Create)
		r.Get("/", tripHandler.List)
		r.Get("/{tripID}", tripHandler.Get)
		r.Put("/{tripID}", tripHandler.Update)
		r.Delete("/{tripID}", tripHandler.Delete)
		r.Post("/{tripID}/optimize", optimizeHandler.OptimizeTrip)
	})

	r.Post("/optimize", optimizeHandler.Optimize)
	r.Post("/adaptations/apply", optimizeHandler.ApplyAdaptations)

	return r
}
