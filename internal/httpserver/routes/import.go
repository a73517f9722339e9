package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/handlers"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/mw"
)

func init() { Register("import", registerImport) }

func registerImport(r chi.Router, d deps.Deps) {
	r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.Auth(d.APITokens, d.Logger),
	).Post("/api/import", handlers.Import(d))
}
