/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. BasicAuth:  Optional; enabled when credentials are configured

ROUTE GROUPS:
  /api/run       Run an inline plan
  /api/plans/*   Stored plan management and runs

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config carries the router's deployment options.
type Config struct {
	AllowedOrigins []string

	// BasicAuthUser/BasicAuthPass enable HTTP basic auth on every route
	// when both are non-empty.
	BasicAuthUser string
	BasicAuthPass string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(middleware.BasicAuth("networth", map[string]string{
			cfg.BasicAuthUser: cfg.BasicAuthPass,
		}))
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/run", h.RunPlan)

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", h.ListPlans)
			r.Put("/{name}", h.SavePlan)
			r.Get("/{name}", h.GetPlan)
			r.Delete("/{name}", h.DeletePlan)
			r.Post("/{name}/run", h.RunStoredPlan)
		})
	})

	return r
}
