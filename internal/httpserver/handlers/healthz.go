package handlers

import (
	"net/http"
	"time"

	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/respond"
)

// healthzResponse is liveness only: the store is reported, never pinged.
type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Uptime        string  `json:"uptime"`
	Store         string  `json:"store,omitempty"`
	Version       string  `json:"version,omitempty"`
	Commit        string  `json:"commit,omitempty"`
	BuildDate     string  `json:"build_date,omitempty"`
	GoVersion     string  `json:"go_version,omitempty"`
}

func Healthz(d deps.Deps) http.HandlerFunc {
	build := healthzResponse{
		Status:    "ok",
		Store:     d.StoreBackend,
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		uptime := time.Since(d.StartTime)
		resp := build
		resp.UptimeSeconds = uptime.Seconds()
		resp.Uptime = uptime.Truncate(time.Second).String()
		respond.JSON(w, http.StatusOK, resp)
	}
}
