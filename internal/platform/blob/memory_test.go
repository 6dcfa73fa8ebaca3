package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStoreReadWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	_, err := store.Read(ctx, "/missing.csv")
	require.ErrorIs(t, err, ErrNotExist)

	ok, err := store.Exists(ctx, "/file.csv")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Write(ctx, "/file.csv", []byte("hello")))
	ok, err = store.Exists(ctx, "/file.csv")
	require.NoError(t, err)
	require.True(t, ok)

	data, err := store.Read(ctx, "/file.csv")
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	// Overwrite is whole-file: last writer wins.
	require.NoError(t, store.Write(ctx, "/file.csv", []byte("world")))
	data, err = store.Read(ctx, "/file.csv")
	require.NoError(t, err)
	require.Equal(t, "world", string(data))
}

func TestMemStoreReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	require.NoError(t, store.Write(ctx, "/file.csv", []byte("abc")))

	data, err := store.Read(ctx, "/file.csv")
	require.NoError(t, err)
	data[0] = 'x'

	fresh, err := store.Read(ctx, "/file.csv")
	require.NoError(t, err)
	require.Equal(t, "abc", string(fresh))
}

func TestMemStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	require.NoError(t, store.Write(ctx, "/snapshots/2026-09-01/a.csv", nil))
	require.NoError(t, store.Write(ctx, "/snapshots/2026-09-02/a.csv", nil))
	require.NoError(t, store.Write(ctx, "/credit_log.csv", nil))

	keys, err := store.List(ctx, "/snapshots/")
	require.NoError(t, err)
	require.Equal(t, []string{"/snapshots/2026-09-01/a.csv", "/snapshots/2026-09-02/a.csv"}, keys)
}
