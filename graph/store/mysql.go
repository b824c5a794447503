package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a MySQL/MariaDB implementation of Store[D].
//
// It persists graph documents in a relational database. Designed for:
//   - Shared editor backends where several users open the same designs
//   - Deployments that need documents to survive process restarts
//   - Audit trails of how a design evolved revision by revision
//
// Schema:
//   - graph_revisions: the auto-save stream
//   - graph_snapshots: user-labeled saves
//
// Type parameter D is the document type (must be JSON-serializable).
type MySQLStore[D any] struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL-backed store.
//
// The DSN (Data Source Name) format is:
//
//	[username[:password]@][protocol[(address)]]/dbname[?param1=value1&...]
//
// Example DSNs:
//
//	user:password@tcp(localhost:3306)/designs
//	user:password@tcp(127.0.0.1:3306)/designs?parseTime=true
//
// Never hardcode credentials; read the DSN from the environment:
//
//	dsn := os.Getenv("MYSQL_DSN")
//	st, err := store.NewMySQLStore[*graph.Document](dsn)
//
// The store automatically creates required tables and configures
// connection pooling.
func NewMySQLStore[D any](dsn string) (*MySQLStore[D], error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	s := &MySQLStore[D]{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *MySQLStore[D]) createTables(ctx context.Context) error {
	revisions := `
		CREATE TABLE IF NOT EXISTS graph_revisions (
			graph_id VARCHAR(191) NOT NULL,
			revision BIGINT UNSIGNED NOT NULL,
			doc LONGTEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (graph_id, revision)
		)
	`
	if _, err := s.db.ExecContext(ctx, revisions); err != nil {
		return fmt.Errorf("failed to create graph_revisions table: %w", err)
	}

	snapshots := `
		CREATE TABLE IF NOT EXISTS graph_snapshots (
			label VARCHAR(191) NOT NULL,
			revision BIGINT UNSIGNED NOT NULL,
			doc LONGTEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (label)
		)
	`
	if _, err := s.db.ExecContext(ctx, snapshots); err != nil {
		return fmt.Errorf("failed to create graph_snapshots table: %w", err)
	}
	return nil
}

// SaveRevision persists one revision of a graph document.
func (s *MySQLStore[D]) SaveRevision(ctx context.Context, graphID string, revision uint64, doc D) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `
		INSERT INTO graph_revisions (graph_id, revision, doc)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE doc = VALUES(doc)
	`
	if _, err := s.db.ExecContext(ctx, query, graphID, revision, string(data)); err != nil {
		return fmt.Errorf("failed to save revision: %w", err)
	}
	return nil
}

// LoadLatest retrieves the highest-revision document for a graph.
func (s *MySQLStore[D]) LoadLatest(ctx context.Context, graphID string) (D, uint64, error) {
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
func (s *MySQLStore[D]) SaveSnapshot(ctx context.Context, label string, doc D, revision uint64) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `
		INSERT INTO graph_snapshots (label, revision, doc)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE revision = VALUES(revision), doc = VALUES(doc)
	`
	if _, err := s.db.ExecContext(ctx, query, label, revision, string(data)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves a snapshot by label.
func (s *MySQLStore[D]) LoadSnapshot(ctx context.Context, label string) (D, uint64, error) {
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
func (s *MySQLStore[D]) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *MySQLStore[D]) Close() error {
	return s.db.Close()
}
