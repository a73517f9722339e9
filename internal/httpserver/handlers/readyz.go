package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/respond"
	"github.com/meCeltic/Bookmark-AI/internal/logger"
)

const readyzPingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store,omitempty"`
	Error string `json:"error,omitempty"`
}

// Readyz reports 503 while the store does not answer a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyzPingTimeout)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			respond.JSON(w, http.StatusServiceUnavailable, readyzResponse{
				Ready: false,
				Store: d.StoreBackend,
				Error: "store unavailable",
			})
			return
		}

		respond.JSON(w, http.StatusOK, readyzResponse{Ready: true, Store: d.StoreBackend})
	}
}
