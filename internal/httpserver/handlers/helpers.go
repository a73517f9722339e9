package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/mw"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/respond"
	"github.com/meCeltic/Bookmark-AI/internal/logger"
)

const maxBodyBytes = 64 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// requireUser writes 401 when Auth did not run for this route.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

// storeFailure logs the cause and answers with a generic 500.
func storeFailure(w http.ResponseWriter, d deps.Deps, op string, err error) {
	d.Logger.Error("store operation failed",
		logger.String("op", op),
		logger.Error(err))
	respond.Error(w, http.StatusInternalServerError, "Internal server error")
}
