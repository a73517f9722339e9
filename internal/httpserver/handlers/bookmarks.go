package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/deps"
	"github.com/meCeltic/Bookmark-AI/internal/httpserver/respond"
	"github.com/meCeltic/Bookmark-AI/internal/logger"
	"github.com/meCeltic/Bookmark-AI/internal/metrics"
	"github.com/meCeltic/Bookmark-AI/internal/store"
	"github.com/meCeltic/Bookmark-AI/internal/urlutil"
)

type createBookmarkRequest struct {
	URL  string   `json:"url"`
	Tags []string `json:"tags"`
}

type addTagRequest struct {
	Tag string `json:"tag"`
}

type saveOrderRequest struct {
	IDs *[]string `json:"ids"`
}

type successResponse struct {
	Success bool  `json:"success"`
	Added   *bool `json:"added,omitempty"`
}

// ListBookmarks returns the caller's bookmarks in display order, optionally filtered by ?q=.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		bookmarks, err := d.Store.List(r.Context(), userID)
		if err != nil {
			storeFailure(w, d, "list bookmarks", err)
			return
		}

		bookmarks = domain.Filter(bookmarks, r.URL.Query().Get("q"))
		if bookmarks == nil {
			bookmarks = []domain.Bookmark{}
		}
		respond.JSON(w, http.StatusOK, bookmarks)
	}
}

// CreateBookmark fetches metadata for the posted URL and stores the bookmark.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req createBookmarkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		normalized := urlutil.Normalize(req.URL)
		if strings.TrimSpace(req.URL) == "" {
			respond.Error(w, http.StatusBadRequest, "Invalid URL")
			return
		}
		if _, err := urlutil.Parse(normalized); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid URL")
			return
		}

		md := d.Fetcher.Fetch(r.Context(), normalized)

		tags := make([]string, 0, len(req.Tags))
		for _, t := range req.Tags {
			tags = append(tags, strings.TrimSpace(t))
		}

		b, err := d.Store.Add(r.Context(), domain.NewBookmark{
			UserID:  userID,
			URL:     normalized,
			Title:   md.Title,
			Favicon: md.Favicon,
			Summary: md.Summary,
			Tags:    tags,
		})
		if err != nil {
			storeFailure(w, d, "add bookmark", err)
			return
		}
		metrics.IncBookmarksCreated()

		d.Logger.Info("bookmark created",
			logger.String("user", userID),
			logger.String("id", b.ID),
			logger.String("url", b.URL))
		respond.JSON(w, http.StatusCreated, b)
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		b, err := d.Store.Get(r.Context(), chi.URLParam(r, "id"), userID)
		if errors.Is(err, store.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Bookmark not found")
			return
		}
		if err != nil {
			storeFailure(w, d, "get bookmark", err)
			return
		}

		respond.JSON(w, http.StatusOK, b)
	}
}

// DeleteBookmark answers 404 for both missing and foreign bookmarks.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		deleted, err := d.Store.Delete(r.Context(), chi.URLParam(r, "id"), userID)
		if err != nil {
			storeFailure(w, d, "delete bookmark", err)
			return
		}
		if !deleted {
			respond.Error(w, http.StatusNotFound, "Not found or not authorized")
			return
		}

		respond.JSON(w, http.StatusOK, successResponse{Success: true})
	}
}

func AddTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req addTagRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		tag := strings.TrimSpace(req.Tag)
		if tag == "" {
			respond.Error(w, http.StatusBadRequest, "Invalid tag")
			return
		}

		added, err := d.Store.AddTag(r.Context(), chi.URLParam(r, "id"), tag, userID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "Bookmark not found")
		case errors.Is(err, store.ErrForbidden):
			respond.Error(w, http.StatusForbidden, "Not authorized")
		case err != nil:
			storeFailure(w, d, "add tag", err)
		default:
			respond.JSON(w, http.StatusOK, successResponse{Success: true, Added: &added})
		}
	}
}

func SaveOrder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req saveOrderRequest
		if err := decodeJSON(w, r, &req); err != nil || req.IDs == nil {
			respond.Error(w, http.StatusBadRequest, "ids is required")
			return
		}

		if err := d.Store.SaveOrder(r.Context(), *req.IDs, userID); err != nil {
			storeFailure(w, d, "save order", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
