// Package redis persists bookmarks in Redis using the same shape as the
// in-memory store: JSON records plus per-user id lists. Nothing expires.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meCeltic/Bookmark-AI/internal/id"
	"github.com/meCeltic/Bookmark-AI/internal/store"
)

// Store handles Redis operations for bookmarks and order lists
type Store struct {
	client *redis.Client
	ids    store.IDGenerator
	now    store.Clock
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

// NewStore creates a new Redis store on an already connected client
func NewStore(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		ids:    id.NewGenerator(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the client's connections
func (s *Store) Close() error {
	return s.client.Close()
}
