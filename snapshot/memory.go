package snapshot

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore keeps snapshots in process memory. Intended for tests and
// ephemeral tooling; contents are lost when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[int64]*Snapshot
}

// NewMemoryStore returns an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[int64]*Snapshot)}
}

func (m *MemoryStore) Put(_ context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.snaps[snap.Version]; exists {
		return fmt.Errorf("snapshot: version %d already stored", snap.Version)
	}
	m.snaps[snap.Version] = snap.clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, version int64) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[version]
	if !ok {
		return nil, ErrNotFound
	}
	return snap.clone(), nil
}

func (m *MemoryStore) Latest(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest int64
	for v := range m.snaps {
		if v > latest {
			latest = v
		}
	}
	return latest, nil
}

func (m *MemoryStore) Versions(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int64, 0, len(m.snaps))
	for v := range m.snaps {
		out = append(out, v)
	}
	slices.Sort(out)
	return out, nil
}

func (m *MemoryStore) Remove(_ context.Context, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snaps[version]; !ok {
		return ErrNotFound
	}
	delete(m.snaps, version)
	return nil
}
