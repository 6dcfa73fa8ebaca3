package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/utsav-books/utsav-books/internal/platform/blob"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSnapshotCache(client, time.Minute), mr
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	_, ok := cache.Get(ctx)
	require.False(t, ok)

	snap := snapshot{Credits: []byte("a"), Dues: []byte("b"), Collections: []byte("c")}
	cache.Set(ctx, snap)

	got, ok := cache.Get(ctx)
	require.True(t, ok)
	require.Equal(t, snap, got)

	cache.Invalidate(ctx)
	_, ok = cache.Get(ctx)
	require.False(t, ok)
}

func TestSnapshotCacheExpires(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	cache.Set(ctx, snapshot{Credits: []byte("a")})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx)
	require.False(t, ok)
}

func TestRepositoryServesFromCacheUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := blob.NewMemStore()
	repo := NewRepository(store, DefaultPaths, NewSnapshotCache(client, time.Minute))
	require.NoError(t, repo.Ensure(ctx))
	svc := NewService(repo)

	_, err := svc.RecordCredit(ctx, CreditInput{
		Zone:     testZone,
		BillNo:   1,
		Name:     "Arjun Das",
		Address:  "12 Lake Road",
		Billed:   decimal.NewFromInt(500),
		Received: decimal.NewFromInt(200),
		Date:     billDate(),
	})
	require.NoError(t, err)

	// The save invalidated the cache; the next load re-reads the store and
	// repopulates it with the fresh state.
	credits, err := svc.ZoneCredits(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, credits, 1)

	_, err = svc.ApplyDuePayment(ctx, testZone, 1, decimal.NewFromInt(300), billDate())
	require.NoError(t, err)

	dues, err := svc.ZoneDues(ctx, testZone)
	require.NoError(t, err)
	require.Empty(t, dues)
}
