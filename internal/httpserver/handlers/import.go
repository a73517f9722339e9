package handlers

import (
	"net/http"

	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/respond"
	"github.com/meCeltic/Bookmark-AI/internal/logger"
)

type importResponse struct {
	Status string `json:"status"`
}

// Import queues a seed import run. At most one run waits in the queue.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			respond.Error(w, http.StatusNotFound, "Import not configured")
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			d.Logger.Info("manual import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			respond.JSON(w, http.StatusAccepted, importResponse{Status: "import triggered"})
		default:
			d.Logger.Warn("import already queued",
				logger.String("remote_ip", r.RemoteAddr))
			respond.Error(w, http.StatusTooManyRequests, "Import already queued, please wait")
		}
	}
}
