package mw

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/meCeltic/Bookmark-AI/internal/httpserver/respond"
	"github.com/meCeltic/Bookmark-AI/internal/logger"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	requestInfoKey
)

// UserID returns the authenticated user stored by Auth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Auth accepts "Authorization: Bearer <token>" or "Token <token>" and maps the
// token to a user id through tokens. Anything else gets 401.
func Auth(tokens map[string]string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := credentials(r.Header.Get("Authorization"))
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, ok := lookupToken(tokens, token)
			if !ok {
				log.Debug("auth: unknown token", logger.String("path", r.URL.Path))
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			noteUser(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func credentials(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// lookupToken compares every configured token in constant time.
func lookupToken(tokens map[string]string, token string) (string, bool) {
	var userID string
	found := false
	for candidate, user := range tokens {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			userID, found = user, true
		}
	}
	return userID, found
}
