package state

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrSnapshotNotFound is returned by stores when no snapshot exists for a tool.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store persists the authoritative snapshot of each deployed tool. The
// resolver never talks to a Store; hosts fetch a snapshot and pass it in.
type Store interface {
	Load(ctx context.Context, toolID string) (*Snapshot, error)
	Save(ctx context.Context, toolID string, snap *Snapshot) error
	Delete(ctx context.Context, toolID string) error
	// List returns the ids of stored tools in lexical order.
	List(ctx context.Context) ([]string, error)
}

// Stamp prepares next for persistence after prev: the version moves past
// both and LastModified is set to now.
func Stamp(prev, next *Snapshot, now time.Time) *Snapshot {
	out := next.Clone()
	if out == nil {
		out = NewSnapshot()
	}
	normalize(out)

	version := out.Version
	if prev != nil && prev.Version > version {
		version = prev.Version
	}
	out.Version = version + 1
	out.LastModified = now.UTC().Format(time.RFC3339)
	return out
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	now       func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]*Snapshot),
		now:       time.Now,
	}
}

// Load returns a copy of the stored snapshot.
func (m *MemoryStore) Load(ctx context.Context, toolID string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[toolID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap.Clone(), nil
}

// Save stores a stamped copy of snap.
func (m *MemoryStore) Save(ctx context.Context, toolID string, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[toolID] = Stamp(m.snapshots[toolID], snap, m.now())
	return nil
}

// Delete removes the snapshot for toolID.
func (m *MemoryStore) Delete(ctx context.Context, toolID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.snapshots, toolID)
	return nil
}

// List returns the stored tool ids sorted.
func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.snapshots))
	for id := range m.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

var _ Store = (*MemoryStore)(nil)
