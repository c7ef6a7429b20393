// Package router sets up the HTTP routes and middleware chains of the
// ethics catalog admin API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ethicsadmin/internal/handlers"
	"ethicsadmin/internal/middleware"
)

// CatalogPath is the base path of the catalog endpoints.
const CatalogPath = "/api/admin/ethics/catalog"

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(catalog *handlers.Catalog, auth *middleware.TokenAuth, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route(CatalogPath, func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(auth.Middleware)

		r.Get("/", catalog.Get)
		r.Put("/", catalog.Upsert)
		r.Post("/", catalog.Upsert)

		r.Route("/revisions", func(r chi.Router) {
			r.Get("/", catalog.ListRevisions)
			r.Get("/{id}", catalog.GetRevision)
			r.Get("/{id}/archive", catalog.RevisionArchive)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
