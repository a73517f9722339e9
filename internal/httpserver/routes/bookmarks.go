package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/handlers"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/mw"
)

func init() { Register("bookmarks", registerBookmarks) }

// registerBookmarks wires the authenticated API. Routes that trigger outbound
// fetches share one token bucket per caller.
func registerBookmarks(r chi.Router, d deps.Deps) {
	fetchLimit := mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.FetchRateBurst,
		RefillPerMin: d.FetchRatePerMin,
		MaxEntries:   10000,
		TrustProxy:   d.TrustProxy,
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(d.APITokens, d.Logger))

		r.Get("/api/bookmarks", handlers.ListBookmarks(d))
		r.With(fetchLimit).Post("/api/bookmarks", handlers.CreateBookmark(d))
		r.Put("/api/bookmarks/order", handlers.SaveOrder(d))
		r.Get("/api/bookmarks/{id}", handlers.GetBookmark(d))
		r.Delete("/api/bookmarks/{id}", handlers.DeleteBookmark(d))
		r.Post("/api/bookmarks/{id}/tags", handlers.AddTag(d))

		r.With(fetchLimit).Post("/api/metadata", handlers.Metadata(d))
	})
}
