// Package manifest tracks which documents have been ingested per tenant, so
// repeated ingest runs only re-embed what changed.
package manifest

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Manifest wraps a SQLite database recording ingested documents.
type Manifest struct {
	db   *sql.DB
	path string
}

// Document is one manifest row.
type Document struct {
	ID          string
	Org         string
	RelPath     string
	ContentHash string
	ChunkCount  int
	Size        int64
	UpdatedAt   time.Time
}

// Open creates or opens the manifest database at the given path.
func Open(path string) (*Manifest, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging manifest: %w", err)
	}

	m := &Manifest{db: sqlDB, path: path}
	if err := m.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return m, nil
}

// OpenMemory creates an in-memory manifest (useful for testing).
func OpenMemory() (*Manifest, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory manifest: %w", err)
	}

	m := &Manifest{db: sqlDB, path: ":memory:"}
	if err := m.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return m, nil
}

// migrate runs all schema migrations.
func (m *Manifest) migrate() error {
	_, err := m.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    org TEXT NOT NULL,
    rel_path TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    chunk_count INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL DEFAULT 0,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
    UNIQUE(org, rel_path)
);

CREATE INDEX IF NOT EXISTS idx_documents_org ON documents(org);
`

// Close closes the underlying database.
func (m *Manifest) Close() error { return m.db.Close() }

// IsChanged reports whether the document at relPath needs re-ingestion: it is
// new, or its content hash differs from the recorded one.
func (m *Manifest) IsChanged(org, relPath, contentHash string) (bool, error) {
	var recorded string
	err := m.db.QueryRow(
		`SELECT content_hash FROM documents WHERE org = ? AND rel_path = ?`,
		org, relPath,
	).Scan(&recorded)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", relPath, err)
	}
	return recorded != contentHash, nil
}

// Record upserts the manifest row for a document after successful ingestion.
func (m *Manifest) Record(org, relPath, contentHash string, chunkCount int, size int64) error {
	_, err := m.db.Exec(`
		INSERT INTO documents (id, org, rel_path, content_hash, chunk_count, size, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(org, rel_path) DO UPDATE SET
			content_hash = excluded.content_hash,
			chunk_count = excluded.chunk_count,
			size = excluded.size,
			updated_at = excluded.updated_at`,
		uuid.NewString(), org, relPath, contentHash, chunkCount, size,
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", relPath, err)
	}
	return nil
}

// Delete removes the manifest row for a document.
func (m *Manifest) Delete(org, relPath string) error {
	_, err := m.db.Exec(`DELETE FROM documents WHERE org = ? AND rel_path = ?`, org, relPath)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", relPath, err)
	}
	return nil
}

// List returns all manifest rows for one tenant, ordered by path.
func (m *Manifest) List(org string) ([]Document, error) {
	rows, err := m.db.Query(`
		SELECT id, org, rel_path, content_hash, chunk_count, size, updated_at
		FROM documents WHERE org = ? ORDER BY rel_path`, org)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Org, &d.RelPath, &d.ContentHash, &d.ChunkCount, &d.Size, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
