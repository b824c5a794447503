// Package store provides persistence backends for serialized graph
// documents: the auto-save plumbing a host hangs off the core's change
// notifications.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested graph ID or snapshot label does
// not exist.
var ErrNotFound = errors.New("not found")

// Store persists graph documents.
//
// It supports two shapes of persistence:
//   - Revisions: the auto-save stream; every debounced save appends the
//     document under (graphID, revision), and LoadLatest restores the most
//     recent one after a reload or crash.
//   - Snapshots: user-named saves ("before-refactor") restorable by label.
//
// Implementations can use in-memory maps (testing), SQLite (local
// single-file persistence), or MySQL (shared backends).
//
// Type parameter D is the document type to persist; it must be
// JSON-serializable for the database-backed stores. graph.Document is the
// intended instantiation.
type Store[D any] interface {
	// SaveRevision persists the document as the given revision of a
	// graph. Saving the same (graphID, revision) twice overwrites.
	SaveRevision(ctx context.Context, graphID string, revision uint64, doc D) error

	// LoadLatest retrieves the highest-revision document for a graph.
	// Returns ErrNotFound if the graph has no saved revisions.
	LoadLatest(ctx context.Context, graphID string) (doc D, revision uint64, err error)

	// SaveSnapshot persists the document under a user-chosen label,
	// overwriting any previous snapshot with that label.
	SaveSnapshot(ctx context.Context, label string, doc D, revision uint64) error

	// LoadSnapshot retrieves a snapshot by label. Returns ErrNotFound if
	// the label does not exist.
	LoadSnapshot(ctx context.Context, label string) (doc D, revision uint64, err error)
}
