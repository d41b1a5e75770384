package share

import (
	"context"
	"sync"

	"github.com/bdfinst/interactive-cd/pkg/adoption"
)

// MemoryStore is an in-process snapshot store for tests and single-instance
// deployments without MongoDB.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

// Create persists a snapshot and returns its generated id.
func (s *MemoryStore) Create(ctx context.Context, path []string, doc adoption.Document) (string, error) {
	snap := newSnapshot(path, doc)
	s.mu.Lock()
	s.snaps[snap.ID] = snap
	s.mu.Unlock()
	return snap.ID, nil
}

// Get retrieves a snapshot by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snaps[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &snap, nil
}

// Delete removes a snapshot. Deleting a missing id is not an error.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.snaps, id)
	s.mu.Unlock()
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
