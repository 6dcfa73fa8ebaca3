package ledger

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/utsav-books/utsav-books/internal/platform/blob"
)

// Table identifies one of the three persisted ledger tables.
type Table int

const (
	TableCredits Table = iota
	TableDues
	TableCollections
)

// Paths locates the ledger files in the blob store.
type Paths struct {
	Credits     string
	Dues        string
	Collections string
}

// DefaultPaths mirrors the committee's historical file names.
var DefaultPaths = Paths{
	Credits:     "/credit_log.csv",
	Dues:        "/due_list.csv",
	Collections: "/due_collection.csv",
}

// RepositoryPort defines persistence for the ledger tables. Save writes the
// touched tables back as whole files; the collection history, being the most
// failure-tolerant table, is always written last. A write that fails partway
// leaves the earlier tables committed — there is no rollback.
type RepositoryPort interface {
	Load(ctx context.Context) (*Tables, error)
	Save(ctx context.Context, t *Tables, touched ...Table) error
}

// Repository persists the ledger tables in a blob store, optionally serving
// reads from a short-lived cached snapshot.
type Repository struct {
	store   blob.Store
	paths   Paths
	cache   *SnapshotCache
	group   singleflight.Group
	onWrite func(table string)
}

// NewRepository builds a Repository. cache may be nil.
func NewRepository(store blob.Store, paths Paths, cache *SnapshotCache) *Repository {
	return &Repository{store: store, paths: paths, cache: cache}
}

// OnWrite registers a hook called once per table overwrite, used for metrics.
func (r *Repository) OnWrite(fn func(table string)) {
	r.onWrite = fn
}

func (r *Repository) wrote(table string) {
	if r.onWrite != nil {
		r.onWrite(table)
	}
}

// Ensure seeds missing ledger files with header-only content.
func (r *Repository) Ensure(ctx context.Context) error {
	seeds := []struct {
		path   string
		encode func() ([]byte, error)
	}{
		{r.paths.Credits, func() ([]byte, error) { return EncodeCredits(nil) }},
		{r.paths.Dues, func() ([]byte, error) { return EncodeDues(nil) }},
		{r.paths.Collections, func() ([]byte, error) { return EncodeCollections(nil) }},
	}
	for _, seed := range seeds {
		ok, err := r.store.Exists(ctx, seed.path)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		data, err := seed.encode()
		if err != nil {
			return err
		}
		if err := r.store.Write(ctx, seed.path, data); err != nil {
			return err
		}
	}
	return nil
}

// Load reads all three tables. Concurrent fetches of the underlying files
// collapse into one, but each caller decodes its own *Tables so readers and
// mutators never share maps.
func (r *Repository) Load(ctx context.Context) (*Tables, error) {
	v, err, _ := r.group.Do("snapshot", func() (any, error) {
		return r.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(v.(snapshot))
}

func (r *Repository) fetch(ctx context.Context) (snapshot, error) {
	if r.cache != nil {
		if snap, ok := r.cache.Get(ctx); ok {
			return snap, nil
		}
	}

	snap := snapshot{}
	var err error
	if snap.Credits, err = r.readFile(ctx, r.paths.Credits); err != nil {
		return snapshot{}, err
	}
	if snap.Dues, err = r.readFile(ctx, r.paths.Dues); err != nil {
		return snapshot{}, err
	}
	if snap.Collections, err = r.readFile(ctx, r.paths.Collections); err != nil {
		return snapshot{}, err
	}

	if r.cache != nil {
		r.cache.Set(ctx, snap)
	}
	return snap, nil
}

func (r *Repository) readFile(ctx context.Context, path string) ([]byte, error) {
	data, err := r.store.Read(ctx, path)
	if err != nil {
		if errors.Is(err, blob.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("ledger: load %s: %w", path, err)
	}
	return data, nil
}

// Save writes the touched tables. The fixed order credits, dues, collections
// keeps the audit history last so an interrupted save never records a
// settlement the credit ledger did not absorb.
func (r *Repository) Save(ctx context.Context, t *Tables, touched ...Table) error {
	dirty := make(map[Table]bool, len(touched))
	for _, tab := range touched {
		dirty[tab] = true
	}

	// Dropped up front so a save that fails partway through never leaves the
	// pre-write snapshot cached for the rest of its TTL.
	if r.cache != nil {
		r.cache.Invalidate(ctx)
	}

	if dirty[TableCredits] {
		data, err := EncodeCredits(t.Credits)
		if err != nil {
			return err
		}
		if err := r.store.Write(ctx, r.paths.Credits, data); err != nil {
			return fmt.Errorf("ledger: save credits: %w", err)
		}
		r.wrote("credits")
	}
	if dirty[TableDues] {
		data, err := EncodeDues(t.Dues)
		if err != nil {
			return err
		}
		if err := r.store.Write(ctx, r.paths.Dues, data); err != nil {
			return fmt.Errorf("ledger: save dues: %w", err)
		}
		r.wrote("dues")
	}
	if dirty[TableCollections] {
		data, err := EncodeCollections(t.Collections)
		if err != nil {
			return err
		}
		if err := r.store.Write(ctx, r.paths.Collections, data); err != nil {
			return fmt.Errorf("ledger: save collections: %w", err)
		}
		r.wrote("collections")
	}

	if r.cache != nil {
		r.cache.Invalidate(ctx)
	}
	return nil
}

func decodeSnapshot(snap snapshot) (*Tables, error) {
	credits, err := DecodeCredits(snap.Credits)
	if err != nil {
		return nil, err
	}
	dues, err := DecodeDues(snap.Dues)
	if err != nil {
		return nil, err
	}
	collections, err := DecodeCollections(snap.Collections)
	if err != nil {
		return nil, err
	}
	if credits == nil {
		credits = make(map[BillKey]CreditRecord)
	}
	if dues == nil {
		dues = make(map[BillKey]DueRecord)
	}
	return &Tables{Credits: credits, Dues: dues, Collections: collections}, nil
}
