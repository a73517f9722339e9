// Package respond writes JSON responses and {"error": msg} bodies.
package respond

import (
	"encoding/json"
	"net/http"
)

// JSON writes payload with status. Encoding errors are dropped: the status is already out.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}
