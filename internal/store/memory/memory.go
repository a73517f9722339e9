// Package memory is the in-process bookmark store.
//
// All users share one flat collection, newest first, plus one order list per
// user. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
	"github.com/meCeltic/Bookmark-AI/internal/id"
	"github.com/meCeltic/Bookmark-AI/internal/store"
)

// Store keeps bookmarks in memory. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	bookmarks []domain.Bookmark   // head = most recently added
	orders    map[string][]string // userID -> ordered ids

	ids store.IDGenerator
	now store.Clock
}

var _ store.Store = (*Store)(nil)

// Option customises a Store.
type Option func(*Store)

// WithIDGenerator overrides the UUIDv7 generator.
func WithIDGenerator(g store.IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock overrides time.Now for creation timestamps.
func WithClock(c store.Clock) Option {
	return func(s *Store) { s.now = c }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		orders: make(map[string][]string),
		ids:    id.NewGenerator(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) List(_ context.Context, userID string) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]domain.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			owned = append(owned, b.Clone())
		}
	}
	return domain.ApplyOrder(owned, s.orders[userID]), nil
}

func (s *Store) Get(_ context.Context, id, userID string) (domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 || s.bookmarks[i].UserID != userID {
		return domain.Bookmark{}, store.ErrNotFound
	}
	return s.bookmarks[i].Clone(), nil
}

func (s *Store) Add(_ context.Context, nb domain.NewBookmark) (domain.Bookmark, error) {
	newID, err := s.ids.NewID()
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("memory store: %w", err)
	}

	b := domain.Bookmark{
		ID:        newID,
		UserID:    nb.UserID,
		URL:       nb.URL,
		Title:     nb.Title,
		Favicon:   nb.Favicon,
		Summary:   nb.Summary,
		Tags:      domain.DedupTags(nb.Tags),
		CreatedAt: s.now(),
	}
	b = b.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks = append([]domain.Bookmark{b}, s.bookmarks...)
	return b.Clone(), nil
}

func (s *Store) Delete(_ context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || s.bookmarks[i].UserID != userID {
		return false, nil
	}

	s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
	if order, ok := s.orders[userID]; ok {
		s.orders[userID] = domain.PruneOrder(order, id)
	}
	return true, nil
}

func (s *Store) AddTag(_ context.Context, id, tag, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, store.ErrNotFound
	}
	b := &s.bookmarks[i]
	if b.UserID != userID {
		return false, store.ErrForbidden
	}
	if b.HasTag(tag) {
		return false, nil
	}

	b.Tags = append(b.Tags, tag)
	return true, nil
}

func (s *Store) SaveOrder(_ context.Context, ids []string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[userID] = append([]string{}, ids...)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Count returns the number of bookmarks across all users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.bookmarks)
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}
