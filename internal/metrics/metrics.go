// Package metrics exposes Prometheus collectors for bookmarkd.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes recorded by ObserveFetch.
const (
	FetchOK           = "ok"
	FetchInvalidURL   = "invalid_url"
	FetchHTTPError    = "http_error"
	FetchNonHTML      = "non_html"
	FetchNetworkError = "network_error"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	metadataFetchTotal         *prometheus.CounterVec
	metadataFetchDuration      prometheus.Histogram
	summarySourceTotal         *prometheus.CounterVec
	bookmarksCreatedTotal      prometheus.Counter
	importRunsTotal            *prometheus.CounterVec

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookmarkd_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookmarkd_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route"},
		)

		metadataFetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookmarkd_metadata_fetch_total",
				Help: "Metadata fetches, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		metadataFetchDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bookmarkd_metadata_fetch_duration_seconds",
				Help:    "Wall time of a full metadata fetch including summary fallbacks.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)

		summarySourceTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookmarkd_summary_source_total",
				Help: "Which summary strategy produced the stored summary.",
			},
			[]string{"strategy"},
		)

		bookmarksCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bookmarkd_bookmarks_created_total",
				Help: "Bookmarks created through the API or seed import.",
			},
		)

		importRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookmarkd_import_runs_total",
				Help: "Seed import runs, labeled by result.",
			},
			[]string{"result"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveFetch records one metadata fetch.
func ObserveFetch(outcome string, duration time.Duration) {
	Init()
	metadataFetchTotal.WithLabelValues(outcome).Inc()
	metadataFetchDuration.Observe(duration.Seconds())
}

// ObserveSummarySource records which strategy produced a summary ("default" when none did).
func ObserveSummarySource(strategy string) {
	Init()
	summarySourceTotal.WithLabelValues(strategy).Inc()
}

// IncBookmarksCreated bumps the creation counter.
func IncBookmarksCreated() {
	Init()
	bookmarksCreatedTotal.Inc()
}

// ObserveImport records a seed import run ("ok" or "error").
func ObserveImport(result string) {
	Init()
	importRunsTotal.WithLabelValues(result).Inc()
}
