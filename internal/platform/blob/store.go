// Package blob abstracts the object store holding the ledger files.
package blob

import (
	"context"
	"errors"
)

// ErrNotExist indicates the requested object is absent from the store.
var ErrNotExist = errors.New("blob: object does not exist")

// Store is a whole-file object store. There is no partial write or append
// primitive; callers append by read-modify-write.
type Store interface {
	Exists(ctx context.Context, path string) (bool, error)
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	List(ctx context.Context, prefix string) ([]string, error)
}
