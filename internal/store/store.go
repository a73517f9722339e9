// Package store defines the bookmark persistence contract shared by the
// memory, redis and postgres variants.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
)

var (
	// ErrNotFound means no bookmark has the requested id.
	ErrNotFound = errors.New("bookmark not found")
	// ErrForbidden means the bookmark exists but belongs to another user.
	ErrForbidden = errors.New("bookmark owned by another user")
)

// Store persists bookmarks and per-user display order.
//
// Every operation is scoped by userID. List returns bookmarks arranged by
// domain.ApplyOrder.
type Store interface {
	List(ctx context.Context, userID string) ([]domain.Bookmark, error)
	Get(ctx context.Context, id, userID string) (domain.Bookmark, error)
	Add(ctx context.Context, nb domain.NewBookmark) (domain.Bookmark, error)

	// Delete reports false, with nothing changed, when the bookmark is
	// missing or not owned by userID.
	Delete(ctx context.Context, id, userID string) (bool, error)

	// AddTag reports false when the tag is already present.
	AddTag(ctx context.Context, id, tag, userID string) (bool, error)

	// SaveOrder replaces the user's order list. Ids are not validated.
	SaveOrder(ctx context.Context, ids []string, userID string) error

	Ping(ctx context.Context) error
	Close() error
}

// IDGenerator hands out bookmark ids.
type IDGenerator interface {
	NewID() (string, error)
}

// Clock returns the creation timestamp for new bookmarks.
type Clock func() time.Time
