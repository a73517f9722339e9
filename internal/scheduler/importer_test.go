package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
	"github.com/meCeltic/Bookmark-AI/internal/logger"
	"github.com/meCeltic/Bookmark-AI/internal/metadata"
	"github.com/meCeltic/Bookmark-AI/internal/store/memory"
	"github.com/meCeltic/Bookmark-AI/internal/store/storetest"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls []string
}

func (f *countingFetcher) Fetch(_ context.Context, rawURL string) metadata.Metadata {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rawURL)
	return metadata.Metadata{Title: "T " + rawURL, Summary: "S"}
}

func (f *countingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func writeSeed(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const seedV1 = `
- user: alice
  bookmarks:
    - url: go.dev/doc
      tags: [golang]
    - url: example.com
- user: bob
  bookmarks:
    - url: go.dev/doc
    - url: "http://"
`

func newTestStore() *memory.Store {
	return memory.New(memory.WithIDGenerator(&storetest.SeqIDs{}), memory.WithClock(storetest.StepClock()))
}

func TestImporterImport(t *testing.T) {
	dir := t.TempDir()
	path := writeSeed(t, dir, seedV1)
	st := newTestStore()
	f := &countingFetcher{}
	im := NewImporter(path, st, f, logger.NewNop(), 0, nil)
	ctx := context.Background()

	res, err := im.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Added: 3, Skipped: 1}, res)
	assert.Equal(t, 3, f.count())

	alice, err := st.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, "https://example.com", alice[0].URL)
	assert.Equal(t, "https://go.dev/doc", alice[1].URL)
	assert.Equal(t, "T https://go.dev/doc", alice[1].Title)
	assert.Equal(t, []string{"golang"}, alice[1].Tags)

	// Second run adds nothing and fetches nothing.
	res, err = im.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Existing: 3, Skipped: 1}, res)
	assert.Equal(t, 3, f.count())

	// New tags land on existing bookmarks.
	writeSeed(t, dir, `
- user: alice
  bookmarks:
    - url: https://go.dev/doc
      tags: [golang, reference]
`)
	res, err = im.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Existing: 1, TagsAdded: 1}, res)

	b, err := st.Get(ctx, alice[1].ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "reference"}, b.Tags)
}

func TestImporterKeepsUserEdits(t *testing.T) {
	path := writeSeed(t, t.TempDir(), seedV1)
	st := newTestStore()
	im := NewImporter(path, st, &countingFetcher{}, logger.NewNop(), 0, nil)
	ctx := context.Background()

	_, err := im.Import(ctx)
	require.NoError(t, err)

	var manual domain.Bookmark
	manual, err = st.Add(ctx, domain.NewBookmark{UserID: "alice", URL: "https://manual.example"})
	require.NoError(t, err)

	_, err = im.Import(ctx)
	require.NoError(t, err)

	_, err = st.Get(ctx, manual.ID, "alice")
	assert.NoError(t, err, "import must not remove bookmarks missing from the seed")
	assert.Equal(t, 4, st.Count())
}

func TestImporterErrors(t *testing.T) {
	st := newTestStore()

	im := NewImporter(filepath.Join(t.TempDir(), "missing.yaml"), st, &countingFetcher{}, logger.NewNop(), 0, nil)
	_, err := im.Import(context.Background())
	require.Error(t, err)
	require.Error(t, im.Start(context.Background()))

	empty := writeSeed(t, t.TempDir(), "- user: alice\n  bookmarks: []\n")
	im = NewImporter(empty, st, &countingFetcher{}, logger.NewNop(), 0, nil)
	_, err = im.Import(context.Background())
	require.Error(t, err)
	assert.Zero(t, st.Count())
}

func TestImporterManualTrigger(t *testing.T) {
	dir := t.TempDir()
	path := writeSeed(t, dir, "- user: alice\n  bookmarks:\n    - url: a.example\n")
	st := newTestStore()
	trigger := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	im := NewImporter(path, st, &countingFetcher{}, logger.NewNop(), time.Hour, trigger)
	require.NoError(t, im.Start(ctx))
	defer im.Stop()
	require.Equal(t, 1, st.Count())

	writeSeed(t, dir, "- user: alice\n  bookmarks:\n    - url: a.example\n    - url: b.example\n")
	trigger <- struct{}{}

	assert.Eventually(t, func() bool { return st.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	im.Stop()
	im.Stop()
}
