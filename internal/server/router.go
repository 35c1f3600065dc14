package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/scamtrap-poc/server/web"
)

// NewRouter wires middleware and routes. Only /honeypot requires the shared
// API credential; the liveness and demo surfaces are public.
func NewRouter(h *Handler, secret string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger())
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/", web.DemoHandler(http.HandlerFunc(h.ServiceInfo)))
	r.With(APIKeyAuth(secret)).Post("/honeypot", h.Honeypot)

	return r
}
