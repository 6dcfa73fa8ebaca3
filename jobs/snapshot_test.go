package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/utsav-books/utsav-books/internal/platform/blob"
)

func TestSnapshotterCopiesLedgerFiles(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemStore()
	require.NoError(t, store.Write(ctx, "/credit_log.csv", []byte("credits")))
	require.NoError(t, store.Write(ctx, "/due_list.csv", []byte("dues")))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	snap := NewSnapshotter(store, []string{"/credit_log.csv", "/due_list.csv", "/debit_log.txt"}, logger, nil)

	require.NoError(t, snap.Run(ctx, "2026-09-01"))

	data, err := store.Read(ctx, "/snapshots/2026-09-01/credit_log.csv")
	require.NoError(t, err)
	require.Equal(t, "credits", string(data))

	data, err = store.Read(ctx, "/snapshots/2026-09-01/due_list.csv")
	require.NoError(t, err)
	require.Equal(t, "dues", string(data))

	// The absent debit log is skipped, not an error.
	_, err = store.Read(ctx, "/snapshots/2026-09-01/debit_log.txt")
	require.ErrorIs(t, err, blob.ErrNotExist)
}

func TestSnapshotTaskRoundTrip(t *testing.T) {
	task, err := NewSnapshotTask(SnapshotPayload{Date: "2026-09-01"})
	require.NoError(t, err)
	require.Equal(t, TaskLedgerSnapshot, task.Type())
	require.JSONEq(t, `{"date":"2026-09-01"}`, string(task.Payload()))
}
