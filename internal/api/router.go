package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/api/middleware"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/handlers"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(8 * 1024)) // 8KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - the dashboard frontend calls from its own origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)

	// Worklist
	r.Get("/messages", h.Worklist)
	r.Get("/messages/{id}", h.Message)
	r.Post("/refresh", h.Refresh)

	// Dispatch workflow
	r.Route("/dispatch", func(r chi.Router) {
		r.Post("/", h.StartDispatch)
		r.Get("/{id}", h.DispatchSession)
		r.Post("/{id}/preselect-draft", h.PreselectDraft)
		r.Post("/{id}/worker", h.PickWorker)
		r.Post("/{id}/regenerate", h.Regenerate)
		r.Post("/{id}/send", h.Send)
		r.Post("/{id}/dismiss", h.Dismiss)
	})

	return r
}
