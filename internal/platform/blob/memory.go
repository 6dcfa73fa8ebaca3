package blob

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemStore is an in-memory Store used by tests and local development.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemStore builds an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

// Exists reports whether the object is present.
func (m *MemStore) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[path]
	return ok, nil
}

// Read returns a copy of the stored object.
func (m *MemStore) Read(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, ErrNotExist
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write stores a copy of data under path.
func (m *MemStore) Write(ctx context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[path] = stored
	return nil
}

// List returns the stored paths under prefix, sorted.
func (m *MemStore) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
