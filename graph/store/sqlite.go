package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a SQLite implementation of Store[D].
//
// It persists graph documents in a single-file database. Designed for:
//   - Local editors wanting durable auto-save with zero setup
//   - Development and testing (":memory:" databases)
//   - Prototyping before migrating to a shared backend
//
// Features:
//   - Single file database (e.g. "./designs.db")
//   - Auto-migration on first use
//   - WAL mode for concurrent reads
//
// Schema:
//   - graph_revisions: the auto-save stream, one row per (graph, revision)
//   - graph_snapshots: user-labeled saves
//
// Type parameter D is the document type (must be JSON-serializable).
type SQLiteStore[D any] struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite-backed store.
//
// The path specifies the database file location: "./designs.db",
// an absolute path, or ":memory:" for an in-memory database (data lost on
// close; useful in tests).
//
// The store automatically creates the file and tables, enables WAL mode,
// and sets a busy timeout.
//
// Example:
//
//	st, err := store.NewSQLiteStore[*graph.Document]("./designs.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
func NewSQLiteStore[D any](path string) (*SQLiteStore[D], error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s := &SQLiteStore[D]{db: db, path: path}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore[D]) createTables(ctx context.Context) error {
	revisions := `
		CREATE TABLE IF NOT EXISTS graph_revisions (
			graph_id TEXT NOT NULL,
			revision INTEGER NOT NULL,
			doc TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (graph_id, revision)
		)
	`
	if _, err := s.db.ExecContext(ctx, revisions); err != nil {
		return fmt.Errorf("failed to create graph_revisions table: %w", err)
	}

	snapshots := `
		CREATE TABLE IF NOT EXISTS graph_snapshots (
			label TEXT PRIMARY KEY,
			revision INTEGER NOT NULL,
			doc TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := s.db.ExecContext(ctx, snapshots); err != nil {
		return fmt.Errorf("failed to create graph_snapshots table: %w", err)
	}
	return nil
}

// SaveRevision persists one revision of a graph document.
func (s *SQLiteStore[D]) SaveRevision(ctx context.Context, graphID string, revision uint64, doc D) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `
		INSERT INTO graph_revisions (graph_id, revision, doc)
		VALUES (?, ?, ?)
		ON CONFLICT(graph_id, revision) DO UPDATE SET doc = excluded.doc
	`
	if _, err := s.db.ExecContext(ctx, query, graphID, revision, string(data)); err != nil {
		return fmt.Errorf("failed to save revision: %w", err)
	}
	return nil
}

// LoadLatest retrieves the highest-revision document for a graph.
func (s *SQLiteStore[D]) LoadLatest(ctx context.Context, graphID string) (D, uint64, error) {
	var zero D

	query := `
		SELECT revision, doc FROM graph_revisions
		WHERE graph_id = ?
		ORDER BY revision DESC
		LIMIT 1
	`
	var revision uint64
	var data string
	err := s.db.QueryRowContext(ctx, query, graphID).Scan(&revision, &data)
	if err == sql.ErrNoRows {
		return zero, 0, ErrNotFound
	}
	if err != nil {
		return zero, 0, fmt.Errorf("failed to load latest revision: %w", err)
	}

	var doc D
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return zero, 0, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, revision, nil
}

// SaveSnapshot stores a labeled snapshot, overwriting any existing label.
func (s *SQLiteStore[D]) SaveSnapshot(ctx context.Context, label string, doc D, revision uint64) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `
		INSERT INTO graph_snapshots (label, revision, doc)
		VALUES (?, ?, ?)
		ON CONFLICT(label) DO UPDATE SET revision = excluded.revision, doc = excluded.doc
	`
	if _, err := s.db.ExecContext(ctx, query, label, revision, string(data)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves a snapshot by label.
func (s *SQLiteStore[D]) LoadSnapshot(ctx context.Context, label string) (D, uint64, error) {
	var zero D

	var revision uint64
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT revision, doc FROM graph_snapshots WHERE label = ?", label,
	).Scan(&revision, &data)
	if err == sql.ErrNoRows {
		return zero, 0, ErrNotFound
	}
	if err != nil {
		return zero, 0, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var doc D
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return zero, 0, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, revision, nil
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore[D]) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore[D]) Close() error {
	return s.db.Close()
}
