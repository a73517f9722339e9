// Package postgres provides the relational bookmark store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
	"github.com/meCeltic/Bookmark-AI/internal/id"
	"github.com/meCeltic/Bookmark-AI/internal/store"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// pool is the subset of *pgxpool.Pool the store needs.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Store reads and writes bookmarks in Postgres. Every statement is scoped by
// the caller's user id.
type Store struct {
	pool pool
	ids  store.IDGenerator
	now  store.Clock
}

var _ store.Store = (*Store)(nil)

// Option customises a Store.
type Option func(*Store)

// WithIDGenerator overrides the UUIDv7 generator. Generated ids must be UUIDs.
func WithIDGenerator(g store.IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock overrides time.Now for creation timestamps.
func WithClock(c store.Clock) Option {
	return func(s *Store) { s.now = c }
}

// New connects a pool using cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewWithPool(p, opts...)
}

// NewWithPool constructs a store from an existing pool (primarily for testing).
func NewWithPool(p pool, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	s := &Store{
		pool: p,
		ids:  id.NewGenerator(),
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS bookmarks (
	id         UUID PRIMARY KEY,
	user_id    TEXT NOT NULL,
	url        TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	favicon    TEXT,
	summary    TEXT NOT NULL DEFAULT '',
	tags       TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS bookmarks_user_created_idx ON bookmarks (user_id, created_at DESC);
CREATE TABLE IF NOT EXISTS bookmark_orders (
	user_id    TEXT PRIMARY KEY,
	ids        TEXT[] NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// EnsureSchema creates the tables and index when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const (
	selectColumns = `SELECT id::text, user_id, url, title, favicon, summary, tags, created_at FROM bookmarks`

	listSQL      = selectColumns + ` WHERE user_id = $1 ORDER BY created_at DESC`
	getSQL       = selectColumns + ` WHERE id = $1 AND user_id = $2`
	orderSQL     = `SELECT ids FROM bookmark_orders WHERE user_id = $1`
	insertSQL    = `INSERT INTO bookmarks (id, user_id, url, title, favicon, summary, tags, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	deleteSQL    = `DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`
	pruneSQL     = `UPDATE bookmark_orders SET ids = array_remove(ids, $1), updated_at = now() WHERE user_id = $2`
	ownerTagsSQL = `SELECT user_id, tags FROM bookmarks WHERE id = $1`
	appendTagSQL = `UPDATE bookmarks SET tags = array_append(tags, $1) WHERE id = $2 AND user_id = $3 AND NOT ($1 = ANY(tags))`
	saveOrderSQL = `INSERT INTO bookmark_orders (user_id, ids, updated_at) VALUES ($1, $2, now()) ON CONFLICT (user_id) DO UPDATE SET ids = EXCLUDED.ids, updated_at = EXCLUDED.updated_at`
)

func (s *Store) List(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	rows, err := s.pool.Query(ctx, listSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := make([]domain.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	order, err := s.order(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.ApplyOrder(bookmarks, order), nil
}

func (s *Store) Get(ctx context.Context, bookmarkID, userID string) (domain.Bookmark, error) {
	if !id.Valid(bookmarkID) {
		return domain.Bookmark{}, store.ErrNotFound
	}
	b, err := scanBookmark(s.pool.QueryRow(ctx, getSQL, bookmarkID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bookmark{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("get bookmark: %w", err)
	}
	return b, nil
}

func (s *Store) Add(ctx context.Context, nb domain.NewBookmark) (domain.Bookmark, error) {
	newID, err := s.ids.NewID()
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("create bookmark id: %w", err)
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

	args := []any{b.ID, b.UserID, b.URL, b.Title, b.Favicon, b.Summary, b.Tags, b.CreatedAt}
	if _, err := s.pool.Exec(ctx, insertSQL, args...); err != nil {
		return domain.Bookmark{}, fmt.Errorf("insert bookmark: %w", err)
	}
	return b, nil
}

// Delete removes the bookmark and prunes it from the order list in one transaction.
func (s *Store) Delete(ctx context.Context, bookmarkID, userID string) (bool, error) {
	if !id.Valid(bookmarkID) {
		return false, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin delete: %w", err)
	}

	tag, err := tx.Exec(ctx, deleteSQL, bookmarkID, userID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return false, fmt.Errorf("delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return false, nil
	}

	if _, err := tx.Exec(ctx, pruneSQL, bookmarkID, userID); err != nil {
		_ = tx.Rollback(ctx)
		return false, fmt.Errorf("prune order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit delete: %w", err)
	}
	return true, nil
}

func (s *Store) AddTag(ctx context.Context, bookmarkID, tag, userID string) (bool, error) {
	if !id.Valid(bookmarkID) {
		return false, store.ErrNotFound
	}

	var owner string
	var tags []string
	err := s.pool.QueryRow(ctx, ownerTagsSQL, bookmarkID).Scan(&owner, &tags)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, store.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("load bookmark tags: %w", err)
	}
	if owner != userID {
		return false, store.ErrForbidden
	}
	for _, t := range tags {
		if t == tag {
			return false, nil
		}
	}

	// The ANY guard keeps concurrent duplicates out.
	res, err := s.pool.Exec(ctx, appendTagSQL, tag, bookmarkID, userID)
	if err != nil {
		return false, fmt.Errorf("append tag: %w", err)
	}
	return res.RowsAffected() > 0, nil
}

func (s *Store) SaveOrder(ctx context.Context, ids []string, userID string) error {
	if ids == nil {
		ids = []string{}
	}
	if _, err := s.pool.Exec(ctx, saveOrderSQL, userID, ids); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) order(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.pool.QueryRow(ctx, orderSQL, userID).Scan(&ids)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return ids, nil
}

func scanBookmark(row pgx.Row) (domain.Bookmark, error) {
	var b domain.Bookmark
	err := row.Scan(&b.ID, &b.UserID, &b.URL, &b.Title, &b.Favicon, &b.Summary, &b.Tags, &b.CreatedAt)
	if err != nil {
		return domain.Bookmark{}, err
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b, nil
}
