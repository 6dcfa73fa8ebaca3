package debit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/utsav-books/utsav-books/internal/platform/blob"
)

func newTestService(t *testing.T) (*Service, blob.Store) {
	t.Helper()
	store := blob.NewMemStore()
	repo := NewRepository(store, DefaultPath)
	require.NoError(t, repo.Ensure(context.Background()))
	return NewService(repo), store
}

func TestRecordDebitAppendsLine(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	day := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RecordDebit(ctx, day, 1200, "pandal bamboo"))
	require.NoError(t, svc.RecordDebit(ctx, day, 800, "lighting deposit"))

	data, err := store.Read(ctx, DefaultPath)
	require.NoError(t, err)
	require.Equal(t, "2026-09-03 | 1200 | pandal bamboo\n2026-09-03 | 800 | lighting deposit\n", string(data))

	entries, total, warnings, err := svc.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, int64(2000), total)
	require.Empty(t, warnings)
}

func TestRecordDebitValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	day := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	require.ErrorIs(t, svc.RecordDebit(ctx, day, 100, "   "), ErrValidation)
	require.ErrorIs(t, svc.RecordDebit(ctx, day, -5, "refund"), ErrValidation)
	require.ErrorIs(t, svc.RecordDebit(ctx, time.Time{}, 100, "drums"), ErrValidation)
}

func TestEntriesOnDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	day1 := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RecordDebit(ctx, day1, 100, "flowers"))
	require.NoError(t, svc.RecordDebit(ctx, day2, 250, "sound system"))
	require.NoError(t, svc.RecordDebit(ctx, day2, 50, "incense"))

	entries, total, err := svc.EntriesOnDate(ctx, day2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, int64(300), total)
}
