package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/handlers"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/mw"
)

func init() { Register("readyz", registerReadyz) }

// readyz pings the store, so it sits behind the CIDR allow list like /metrics.
func registerReadyz(r chi.Router, d deps.Deps) {
	infra := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	infra.Get("/readyz", handlers.Readyz(d))
}
