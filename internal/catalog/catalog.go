// Package catalog persists ingestion outcomes so past runs can be listed
// without re-reading the source files. The embedding index itself stays in
// memory; only document-level bookkeeping is stored.
package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"docchat/internal/pipeline"
)

// Entry is one cataloged ingestion run.
type Entry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	Pages      int       `json:"pages"`
	Chunks     int       `json:"chunks"`
	OCRPages   int       `json:"ocr_pages"`
	Warnings   []string  `json:"warnings,omitempty"`
	IngestedAt time.Time `json:"ingested_at"`
	Duration   time.Duration `json:"duration"`
}

// Catalog wraps a sql.DB holding the document bookkeeping.
type Catalog struct {
	db *sql.DB
}

// Open creates or opens the catalog database at the given path.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging catalog: %w", err)
	}

	c := &Catalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return c, nil
}

// OpenMemory creates an in-memory catalog (useful for testing).
func OpenMemory() (*Catalog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory catalog: %w", err)
	}
	c := &Catalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return c, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error { return c.db.Close() }

func (c *Catalog) migrate() error {
	_, err := c.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    pages INTEGER NOT NULL DEFAULT 0,
    chunks INTEGER NOT NULL DEFAULT 0,
    ocr_pages INTEGER NOT NULL DEFAULT 0,
    warnings TEXT NOT NULL DEFAULT '[]',
    ingested_at DATETIME NOT NULL DEFAULT (datetime('now')),
    duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_documents_ingested ON documents(ingested_at);
`

// Save upserts the record of one ingestion run. Re-ingesting a document id
// replaces its row, matching the index's replace semantics.
func (c *Catalog) Save(docID string, res *pipeline.Result) error {
	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.String())
	}
	wjson, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("marshalling warnings: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT INTO documents (id, title, source, pages, chunks, ocr_pages, warnings, ingested_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			source = excluded.source,
			pages = excluded.pages,
			chunks = excluded.chunks,
			ocr_pages = excluded.ocr_pages,
			warnings = excluded.warnings,
			ingested_at = excluded.ingested_at,
			duration_ms = excluded.duration_ms`,
		docID, res.Doc.Title, res.Doc.Source, len(res.Doc.Pages), res.ChunksIndexed,
		res.OCRPages, string(wjson), time.Now().UTC(), res.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("saving document %s: %w", docID, err)
	}
	return nil
}

// Get returns the catalog entry for docID.
func (c *Catalog) Get(docID string) (*Entry, error) {
	row := c.db.QueryRow(`
		SELECT id, title, source, pages, chunks, ocr_pages, warnings, ingested_at, duration_ms
		FROM documents WHERE id = ?`, docID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s not cataloged", docID)
	}
	return e, err
}

// List returns all entries, most recently ingested first.
func (c *Catalog) List() ([]*Entry, error) {
	rows, err := c.db.Query(`
		SELECT id, title, source, pages, chunks, ocr_pages, warnings, ingested_at, duration_ms
		FROM documents ORDER BY ingested_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the entry for docID.
func (c *Catalog) Delete(docID string) error {
	_, err := c.db.Exec(`DELETE FROM documents WHERE id = ?`, docID)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", docID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e          Entry
		wjson      string
		durationMS int64
	)
	if err := s.Scan(&e.ID, &e.Title, &e.Source, &e.Pages, &e.Chunks, &e.OCRPages, &wjson, &e.IngestedAt, &durationMS); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(wjson), &e.Warnings); err != nil {
		return nil, fmt.Errorf("decoding warnings: %w", err)
	}
	if len(e.Warnings) == 0 {
		e.Warnings = nil
	}
	e.Duration = time.Duration(durationMS) * time.Millisecond
	return &e, nil
}
