package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AddAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.UnixMilli(1700000000000)
	for i, reqline := range []string{"first", "second", "third"} {
		require.NoError(t, store.Add(ctx, &Entry{
			Reqline:   reqline,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Reqline)
	assert.Equal(t, "first", entries[2].Reqline)
	assert.Len(t, entries[0].ID, 36)
	assert.Equal(t, base.Add(2*time.Second).UnixMilli(), entries[0].CreatedAt.UnixMilli())

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_Record(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ok := executor.Success(&executor.Result{
		Request: executor.RequestInfo{FullURL: "https://example.com?a=1"},
		Response: executor.ResponseInfo{
			HTTPStatus: 200,
			Duration:   12,
		},
	})
	require.NoError(t, store.Record(ctx, "HTTP GET | URL https://example.com", ok))
	require.NoError(t, store.Record(ctx, "HTTP PUT | URL https://example.com", executor.Failure("Invalid HTTP method. Only GET and POST are supported")))

	entries, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byReqline := map[string]*Entry{}
	for _, e := range entries {
		byReqline[e.Reqline] = e
	}

	good := byReqline["HTTP GET | URL https://example.com"]
	require.NotNil(t, good)
	assert.False(t, good.Failed())
	assert.Equal(t, "https://example.com?a=1", good.FullURL)
	assert.Equal(t, 200, good.HTTPStatus)
	assert.Equal(t, int64(12), good.DurationMs)

	bad := byReqline["HTTP PUT | URL https://example.com"]
	require.NotNil(t, bad)
	assert.True(t, bad.Failed())
	assert.Equal(t, "Invalid HTTP method. Only GET and POST are supported", bad.Error)
	assert.Zero(t, bad.HTTPStatus)
}

func TestStore_Get(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry := &Entry{Reqline: "HTTP GET | URL https://example.com"}
	require.NoError(t, store.Add(ctx, entry))

	got, err := store.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Reqline, got.Reqline)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStore_Clear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Add(ctx, &Entry{Reqline: "HTTP GET | URL https://example.com"}))
	}

	removed, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	entries, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_InMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Add(context.Background(), &Entry{Reqline: "x"}))
	entries, err := store.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_ImplementsRecorder(t *testing.T) {
	var _ executor.Recorder = (*Store)(nil)
}
