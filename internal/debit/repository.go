package debit

import (
	"context"
	"errors"
	"fmt"

	"github.com/utsav-books/utsav-books/internal/platform/blob"
)

// DefaultPath mirrors the committee's historical file name.
const DefaultPath = "/debit_log.txt"

// RepositoryPort defines persistence for the debit log.
type RepositoryPort interface {
	ReadAll(ctx context.Context) (string, error)
	Append(ctx context.Context, line string) error
}

// Repository keeps the debit log as one text blob. Appends are
// read-modify-write since the store only supports whole-file overwrite.
type Repository struct {
	store blob.Store
	path  string
}

// NewRepository builds a Repository.
func NewRepository(store blob.Store, path string) *Repository {
	return &Repository{store: store, path: path}
}

// Ensure seeds an empty log file when missing.
func (r *Repository) Ensure(ctx context.Context) error {
	ok, err := r.store.Exists(ctx, r.path)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return r.store.Write(ctx, r.path, nil)
}

// ReadAll returns the full log text; a missing file reads as empty.
func (r *Repository) ReadAll(ctx context.Context) (string, error) {
	data, err := r.store.Read(ctx, r.path)
	if err != nil {
		if errors.Is(err, blob.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("debit: read log: %w", err)
	}
	return string(data), nil
}

// Append adds one line to the log.
func (r *Repository) Append(ctx context.Context, line string) error {
	existing, err := r.ReadAll(ctx)
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, r.path, []byte(existing+line)); err != nil {
		return fmt.Errorf("debit: append log: %w", err)
	}
	return nil
}
