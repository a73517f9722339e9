// Package storetest holds behaviour checks every store.Store variant must pass.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
	"github.com/meCeltic/Bookmark-AI/internal/store"
)

// SeqIDs returns ids "bm-1", "bm-2", ...
type SeqIDs struct{ n int }

func (g *SeqIDs) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("bm-%d", g.n), nil
}

// StepClock advances one minute per call, starting at a fixed instant.
func StepClock() store.Clock {
	t := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

// Factory builds a fresh, empty store wired with SeqIDs and StepClock.
type Factory func(t *testing.T) store.Store

// Run exercises the full contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("add then list newest first", func(t *testing.T) { testAddList(t, newStore(t)) })
	t.Run("get scoped by owner", func(t *testing.T) { testGet(t, newStore(t)) })
	t.Run("add tag is idempotent", func(t *testing.T) { testAddTagIdempotent(t, newStore(t)) })
	t.Run("add tag ownership", func(t *testing.T) { testAddTagOwnership(t, newStore(t)) })
	t.Run("delete missing is a no-op", func(t *testing.T) { testDeleteMissing(t, newStore(t)) })
	t.Run("delete prunes order", func(t *testing.T) { testDeletePrunesOrder(t, newStore(t)) })
	t.Run("save order round trip", func(t *testing.T) { testSaveOrder(t, newStore(t)) })
	t.Run("partial order", func(t *testing.T) { testPartialOrder(t, newStore(t)) })
	t.Run("owner isolation", func(t *testing.T) { testOwnerIsolation(t, newStore(t)) })
}

func add(t *testing.T, s store.Store, userID, url string, tags ...string) domain.Bookmark {
	t.Helper()
	b, err := s.Add(context.Background(), domain.NewBookmark{
		UserID:  userID,
		URL:     url,
		Title:   url,
		Summary: "summary of " + url,
		Tags:    tags,
	})
	require.NoError(t, err)
	return b
}

func ids(bs []domain.Bookmark) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

func testAddList(t *testing.T, s store.Store) {
	ctx := context.Background()
	first := add(t, s, "alice", "https://one.example")
	second := add(t, s, "alice", "https://two.example", "go", "go", "web")

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))
	assert.Equal(t, []string{"go", "web"}, second.Tags)

	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, ids(list))
	assert.Equal(t, "https://two.example", list[0].URL)
	assert.Equal(t, "summary of https://two.example", list[0].Summary)
}

func testGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	b := add(t, s, "alice", "https://one.example")

	got, err := s.Get(ctx, b.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, b.URL, got.URL)

	_, err = s.Get(ctx, b.ID, "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Get(ctx, "missing", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testAddTagIdempotent(t *testing.T, s store.Store) {
	ctx := context.Background()
	b := add(t, s, "alice", "https://one.example")

	added, err := s.AddTag(ctx, b.ID, "reading", "alice")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddTag(ctx, b.ID, "reading", "alice")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = s.AddTag(ctx, b.ID, "Reading", "alice")
	require.NoError(t, err)
	assert.True(t, added, "tags are case-sensitive")

	got, err := s.Get(ctx, b.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"reading", "Reading"}, got.Tags)
}

func testAddTagOwnership(t *testing.T, s store.Store) {
	ctx := context.Background()
	b := add(t, s, "alice", "https://one.example")

	_, err := s.AddTag(ctx, b.ID, "x", "bob")
	assert.ErrorIs(t, err, store.ErrForbidden)

	_, err = s.AddTag(ctx, "missing", "x", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Get(ctx, b.ID, "alice")
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func testDeleteMissing(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := add(t, s, "alice", "https://one.example")
	b := add(t, s, "alice", "https://two.example")
	require.NoError(t, s.SaveOrder(ctx, []string{a.ID, b.ID}, "alice"))

	deleted, err := s.Delete(ctx, "missing", "alice")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = s.Delete(ctx, a.ID, "bob")
	require.NoError(t, err)
	assert.False(t, deleted, "not owned")

	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids(list))
}

func testDeletePrunesOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := add(t, s, "alice", "https://one.example")
	b := add(t, s, "alice", "https://two.example")
	c := add(t, s, "alice", "https://three.example")
	require.NoError(t, s.SaveOrder(ctx, []string{a.ID, c.ID, b.ID}, "alice"))

	deleted, err := s.Delete(ctx, c.ID, "alice")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.Get(ctx, c.ID, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids(list))
}

func testSaveOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	id1 := add(t, s, "alice", "https://one.example").ID
	id2 := add(t, s, "alice", "https://two.example").ID

	require.NoError(t, s.SaveOrder(ctx, []string{id1, id2}, "alice"))
	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{id1, id2}, ids(list))

	require.NoError(t, s.SaveOrder(ctx, []string{id2, id1}, "alice"))
	list, err = s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{id2, id1}, ids(list))
}

func testPartialOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := add(t, s, "alice", "https://one.example")
	b := add(t, s, "alice", "https://two.example")
	c := add(t, s, "alice", "https://three.example")
	d := add(t, s, "alice", "https://four.example")

	require.NoError(t, s.SaveOrder(ctx, []string{b.ID, "ghost", a.ID}, "alice"))

	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID, d.ID, c.ID}, ids(list))
}

func testOwnerIsolation(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := add(t, s, "userA", "https://a.example")
	b := add(t, s, "userB", "https://b.example")
	require.NoError(t, s.SaveOrder(ctx, []string{b.ID, a.ID}, "userA"))

	list, err := s.List(ctx, "userA")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
	for _, bm := range list {
		assert.Equal(t, "userA", bm.UserID)
	}

	list, err = s.List(ctx, "userB")
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids(list))
}
