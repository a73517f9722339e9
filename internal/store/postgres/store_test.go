package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meCeltic/Bookmark-AI/internal/domain"
	"github.com/meCeltic/Bookmark-AI/internal/store"
)

const (
	id1 = "0190b6a2-7d4e-7c3a-9a51-2f0d8f1e0001"
	id2 = "0190b6a2-7d4e-7c3a-9a51-2f0d8f1e0002"
)

var columns = []string{"id", "user_id", "url", "title", "favicon", "summary", "tags", "created_at"}

type fixedIDs struct{ id string }

func (f fixedIDs) NewID() (string, error) { return f.id, nil }

func q(sql string) string { return regexp.QuoteMeta(sql) }

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s, err := NewWithPool(mock)
	require.NoError(t, err)
	return s, mock
}

func strPtr(s string) *string { return &s }

func newBookmark(userID, url string, favicon *string, tags ...string) domain.NewBookmark {
	return domain.NewBookmark{
		UserID:  userID,
		URL:     url,
		Title:   "Go",
		Favicon: favicon,
		Summary: "The Go site.",
		Tags:    tags,
	}
}

func TestNewWithPoolRequiresPool(t *testing.T) {
	_, err := NewWithPool(nil)
	require.Error(t, err)
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}

func TestAddInsertsRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewWithPool(mock, WithIDGenerator(fixedIDs{id: id1}), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	favicon := strPtr("https://go.dev/favicon.ico")
	mock.ExpectExec(q("INSERT INTO bookmarks")).
		WithArgs(id1, "alice", "https://go.dev", "Go", favicon, "The Go site.", []string{"go"}, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	b, err := s.Add(context.Background(), newBookmark("alice", "https://go.dev", favicon, "go", "go"))
	require.NoError(t, err)
	assert.Equal(t, id1, b.ID)
	assert.Equal(t, now, b.CreatedAt)
	assert.Equal(t, []string{"go"}, b.Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesSavedOrder(t *testing.T) {
	s, mock := newMockStore(t)
	older := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	mock.ExpectQuery(q("FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC")).
		WithArgs("alice").
		WillReturnRows(mock.NewRows(columns).
			AddRow(id2, "alice", "https://two.example", "Two", (*string)(nil), "", []string{}, newer).
			AddRow(id1, "alice", "https://one.example", "One", strPtr("https://one.example/favicon.ico"), "", []string{"x"}, older))
	mock.ExpectQuery(q("SELECT ids FROM bookmark_orders")).
		WithArgs("alice").
		WillReturnRows(mock.NewRows([]string{"ids"}).AddRow([]string{id1, id2}))

	list, err := s.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, id1, list[0].ID)
	assert.Equal(t, id2, list[1].ID)
	assert.Nil(t, list[1].Favicon)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithoutOrderRow(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("FROM bookmarks WHERE user_id = $1")).
		WithArgs("alice").
		WillReturnRows(mock.NewRows(columns).
			AddRow(id1, "alice", "https://one.example", "One", (*string)(nil), "", []string{}, created))
	mock.ExpectQuery(q("SELECT ids FROM bookmark_orders")).
		WithArgs("alice").
		WillReturnError(pgx.ErrNoRows)

	list, err := s.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id1, list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListQueryError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(q("FROM bookmarks WHERE user_id = $1")).
		WithArgs("alice").
		WillReturnError(errors.New("connection reset"))

	_, err := s.List(context.Background(), "alice")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissing(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(q("FROM bookmarks WHERE id = $1 AND user_id = $2")).
		WithArgs(id1, "alice").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Get(context.Background(), id1, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Get(context.Background(), "not-a-uuid", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommitsAndPrunesOrder(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM bookmarks WHERE id = $1 AND user_id = $2")).
		WithArgs(id1, "alice").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(q("UPDATE bookmark_orders SET ids = array_remove(ids, $1)")).
		WithArgs(id1, "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	deleted, err := s.Delete(context.Background(), id1, "alice")
	require.NoError(t, err)
	assert.True(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM bookmarks")).
		WithArgs(id2, "alice").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	deleted, err := s.Delete(context.Background(), id2, "alice")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = s.Delete(context.Background(), "nope", "alice")
	require.NoError(t, err)
	assert.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTag(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		tags    []string
		expect  bool // UPDATE expected
		want    bool
		wantErr error
	}{
		{name: "adds new tag", owner: "alice", tags: []string{"go"}, expect: true, want: true},
		{name: "duplicate is a no-op", owner: "alice", tags: []string{"go", "reading"}, want: false},
		{name: "other owner", owner: "bob", tags: []string{}, wantErr: store.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)

			mock.ExpectQuery(q("SELECT user_id, tags FROM bookmarks WHERE id = $1")).
				WithArgs(id1).
				WillReturnRows(mock.NewRows([]string{"user_id", "tags"}).AddRow(tt.owner, tt.tags))
			if tt.expect {
				mock.ExpectExec(q("UPDATE bookmarks SET tags = array_append(tags, $1)")).
					WithArgs("reading", id1, "alice").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			}

			added, err := s.AddTag(context.Background(), id1, "reading", "alice")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, added)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAddTagMissingBookmark(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(q("SELECT user_id, tags FROM bookmarks")).
		WithArgs(id1).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.AddTag(context.Background(), id1, "x", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveOrderUpserts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO bookmark_orders")).
		WithArgs("alice", []string{id2, id1}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(q("ON CONFLICT (user_id) DO UPDATE")).
		WithArgs("alice", []string{}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveOrder(context.Background(), []string{id2, id1}, "alice"))
	require.NoError(t, s.SaveOrder(context.Background(), nil, "alice"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(q("CREATE TABLE IF NOT EXISTS bookmarks")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	mock, err := pgxmock.NewPool() // v3 always monitors pings (v4: MonitorPingsOption(true))
	require.NoError(t, err)
	defer mock.Close()
	s, err := NewWithPool(mock)
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	require.NoError(t, s.Ping(context.Background()))
	require.Error(t, s.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
