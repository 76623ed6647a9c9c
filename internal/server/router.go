// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/bizcanvas/bizcanvas/internal/server/handlers"
	"github.com/bizcanvas/bizcanvas/internal/server/ratelimit"
)

// NewRouter creates and configures the HTTP router. All endpoints live
// under /api/*; everything except health, login and register requires a
// bearer token.
func NewRouter(svc *handlers.Services, cfg *handlers.Config, limiters *ratelimit.Config) http.Handler {
	mux := http.NewServeMux()

	hh := &handlers.HealthHandler{Svc: svc, Cfg: cfg}
	authh := &handlers.AuthHandler{Svc: svc, Cfg: cfg}
	vh := &handlers.ViewHandler{Svc: svc, Cfg: cfg}
	ch := handlers.NewCatalogHandler(svc, cfg)

	// Health check
	mux.Handle("GET /api/health", Wrap(hh.Health, cfg, limiters))

	// Auth endpoints
	mux.Handle("POST /api/auth/register", WrapWithSvc(authh.Register, svc, cfg, limiters))
	mux.Handle("POST /api/auth/login", WrapWithSvc(authh.Login, svc, cfg, limiters))
	mux.Handle("GET /api/auth/me", WrapAuth(authh.Me, svc, cfg, limiters))

	// View endpoints
	mux.Handle("GET /api/views", WrapAuth(vh.ListViews, svc, cfg, limiters))
	mux.Handle("POST /api/views", WrapAuth(vh.CreateView, svc, cfg, limiters))
	mux.Handle("GET /api/views/{id}", WrapAuth(vh.GetView, svc, cfg, limiters))
	mux.Handle("PUT /api/views/{id}", WrapAuth(vh.UpdateView, svc, cfg, limiters))
	mux.Handle("DELETE /api/views/{id}", WrapAuth(vh.DeleteView, svc, cfg, limiters))

	// Persona endpoints
	mux.Handle("GET /api/personas", WrapAuth(ch.ListPersonas, svc, cfg, limiters))
	mux.Handle("POST /api/personas", WrapAuth(ch.CreatePersona, svc, cfg, limiters))
	mux.Handle("POST /api/personas/query", WrapAuth(ch.QueryPersonas, svc, cfg, limiters))
	mux.Handle("GET /api/personas/filter-fields", WrapAuth(ch.PersonaFields, svc, cfg, limiters))

	// Value proposition endpoints
	mux.Handle("GET /api/value-propositions", WrapAuth(ch.ListPropositions, svc, cfg, limiters))
	mux.Handle("POST /api/value-propositions", WrapAuth(ch.CreateProposition, svc, cfg, limiters))
	mux.Handle("POST /api/value-propositions/query", WrapAuth(ch.QueryPropositions, svc, cfg, limiters))
	mux.Handle("GET /api/value-propositions/filter-fields", WrapAuth(ch.PropositionFields, svc, cfg, limiters))

	// Business model endpoints
	mux.Handle("GET /api/business-models", WrapAuth(ch.ListModels, svc, cfg, limiters))
	mux.Handle("POST /api/business-models", WrapAuth(ch.CreateModel, svc, cfg, limiters))
	mux.Handle("POST /api/business-models/query", WrapAuth(ch.QueryModels, svc, cfg, limiters))
	mux.Handle("GET /api/business-models/filter-fields", WrapAuth(ch.ModelFields, svc, cfg, limiters))

	// Cross-catalog search
	mux.Handle("POST /api/search", WrapAuth(ch.Search, svc, cfg, limiters))

	// History and stats
	mux.Handle("GET /api/history", WrapAuth(hh.History, svc, cfg, limiters))
	mux.Handle("GET /api/stats", WrapAuth(hh.Stats, svc, cfg, limiters))

	return mux
}
