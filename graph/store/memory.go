package store

import (
	"context"
	"sync"
)

// MemStore is an in-memory implementation of Store[D].
//
// Designed for:
//   - Testing and development
//   - Sessions where persistence across restarts isn't required
//
// MemStore is thread-safe. Data is lost when the process terminates; for
// durable persistence use SQLiteStore or MySQLStore.
type MemStore[D any] struct {
	mu        sync.RWMutex
	revisions map[string][]revisionRecord[D] // graphID -> revisions
	snapshots map[string]snapshotRecord[D]   // label -> snapshot
}

type revisionRecord[D any] struct {
	revision uint64
	doc      D
}

type snapshotRecord[D any] struct {
	revision uint64
	doc      D
}

// NewMemStore creates a new in-memory store.
//
// Example:
//
//	st := store.NewMemStore[*graph.Document]()
func NewMemStore[D any]() *MemStore[D] {
	return &MemStore[D]{
		revisions: make(map[string][]revisionRecord[D]),
		snapshots: make(map[string]snapshotRecord[D]),
	}
}

// SaveRevision appends (or overwrites) a revision of a graph.
func (m *MemStore[D]) SaveRevision(_ context.Context, graphID string, revision uint64, doc D) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.revisions[graphID]
	for i, r := range records {
		if r.revision == revision {
			records[i].doc = doc
			return nil
		}
	}
	m.revisions[graphID] = append(records, revisionRecord[D]{revision: revision, doc: doc})
	return nil
}

// LoadLatest returns the highest-revision document for a graph.
// Handles out-of-order saves correctly.
func (m *MemStore[D]) LoadLatest(_ context.Context, graphID string) (D, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.revisions[graphID]
	if len(records) == 0 {
		var zero D
		return zero, 0, ErrNotFound
	}

	latest := records[0]
	for _, r := range records[1:] {
		if r.revision > latest.revision {
			latest = r
		}
	}
	return latest.doc, latest.revision, nil
}

// SaveSnapshot stores a labeled snapshot, overwriting any existing label.
func (m *MemStore[D]) SaveSnapshot(_ context.Context, label string, doc D, revision uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[label] = snapshotRecord[D]{revision: revision, doc: doc}
	return nil
}

// LoadSnapshot retrieves a snapshot by label.
func (m *MemStore[D]) LoadSnapshot(_ context.Context, label string) (D, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snapshots[label]
	if !ok {
		var zero D
		return zero, 0, ErrNotFound
	}
	return s.doc, s.revision, nil
}
