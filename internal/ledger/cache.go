package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "ledger:snapshot"

// snapshot carries the raw ledger files as fetched from the blob store.
type snapshot struct {
	Credits     []byte `json:"credits"`
	Dues        []byte `json:"dues"`
	Collections []byte `json:"collections"`
}

// SnapshotCache keeps a short-lived copy of the ledger files in Redis so the
// read paths do not refetch the blob store on every request. Mutations must
// invalidate it to avoid serving stale due state.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache builds a SnapshotCache with the given TTL.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot when present. Cache failures degrade to a
// miss, never to an error.
func (c *SnapshotCache) Get(ctx context.Context) (snapshot, bool) {
	if c == nil || c.client == nil {
		return snapshot{}, false
	}
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		return snapshot{}, false
	}
	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return snapshot{}, false
	}
	return snap, true
}

// Set stores the snapshot, quietly dropping it on marshal or redis errors.
func (c *SnapshotCache) Set(ctx context.Context, snap snapshot) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, snapshotKey, payload, c.ttl).Err()
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return
	}
}
