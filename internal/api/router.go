package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pactum/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *docservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Stateless parsing.
	r.Post("/parse", h.Parse)

	// Library documents.
	r.Get("/documents", h.ListDocuments)
	r.Post("/documents", h.UploadDocument)
	r.Get("/documents/*", h.GetDocument)
	r.Delete("/documents/*", h.DeleteDocument)

	// Clause search.
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
