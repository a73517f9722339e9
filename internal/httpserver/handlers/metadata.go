package handlers

import (
	"net/http"
	"strings"

	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/respond"
)

type metadataRequest struct {
	URL string `json:"url"`
}

// Metadata previews what a bookmark for the URL would hold. Fetch problems
// never change the status: the body degrades to defaults instead.
func Metadata(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req metadataRequest
		if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.URL) == "" {
			respond.Error(w, http.StatusBadRequest, "URL is required")
			return
		}

		respond.JSON(w, http.StatusOK, d.Fetcher.Fetch(r.Context(), req.URL))
	}
}
