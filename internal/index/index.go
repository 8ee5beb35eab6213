// Package index holds the per-document in-memory embedding index and the
// cosine-similarity ranker over it.
package index

import (
	"fmt"
	"sort"
	"sync"

	"docchat/internal/chunker"
	"docchat/internal/document"
)

// Record pairs an indexed chunk with its embedding vector.
type Record struct {
	DocumentID string
	Page       int
	Span       chunker.Span
	Rect       document.Rect
	Vector     []float32
	Model      string
}

// Stats summarizes index contents.
type Stats struct {
	EntryCount  int      `json:"entry_count"`
	DocumentIDs []string `json:"document_ids"`
}

// Store is the DocumentIndex contract: at most one entry set per document
// id, atomically replaced on re-ingestion.
type Store interface {
	// Put atomically replaces all records for the given document id.
	Put(documentID string, records []Record) error

	// Get returns a snapshot of the records for the given document id.
	// The snapshot stays valid while a later Put replaces the entry.
	Get(documentID string) ([]Record, bool)

	// Clear removes all records for the given document id.
	Clear(documentID string)

	// Stats returns the entry count and the indexed document ids.
	Stats() Stats
}

// Index is the in-memory Store implementation. It is constructed once per
// session and injected into the pipeline and query paths; there is no
// ambient global index. Reads take a shared lock, writes an exclusive one.
type Index struct {
	mu   sync.RWMutex
	docs map[string][]Record
}

// New creates an empty index.
func New() *Index {
	return &Index{docs: make(map[string][]Record)}
}

// Put atomically replaces any prior records for documentID. All vectors in
// one entry must share the same dimension; a mismatch rejects the whole Put
// so a half-written entry can never be observed.
func (x *Index) Put(documentID string, records []Record) error {
	if documentID == "" {
		return fmt.Errorf("index: empty document id")
	}

	dims := -1
	for i, r := range records {
		if dims == -1 {
			dims = len(r.Vector)
			continue
		}
		if len(r.Vector) != dims {
			return fmt.Errorf("index: record %d has %d dimensions, expected %d", i, len(r.Vector), dims)
		}
	}

	entry := make([]Record, len(records))
	copy(entry, records)

	x.mu.Lock()
	x.docs[documentID] = entry
	x.mu.Unlock()
	return nil
}

// Get returns a copy of the records for documentID in their original chunk
// order, or false if the document is not indexed. Because the result is a
// snapshot, an in-flight query is not corrupted by a concurrent Put.
func (x *Index) Get(documentID string) ([]Record, bool) {
	x.mu.RLock()
	entry, ok := x.docs[documentID]
	x.mu.RUnlock()
	if !ok {
		return nil, false
	}
	out := make([]Record, len(entry))
	copy(out, entry)
	return out, true
}

// Clear removes the entry for documentID, if any.
func (x *Index) Clear(documentID string) {
	x.mu.Lock()
	delete(x.docs, documentID)
	x.mu.Unlock()
}

// Stats returns the total record count and the sorted document ids.
func (x *Index) Stats() Stats {
	x.mu.RLock()
	defer x.mu.RUnlock()

	s := Stats{DocumentIDs: make([]string, 0, len(x.docs))}
	for id, entry := range x.docs {
		s.DocumentIDs = append(s.DocumentIDs, id)
		s.EntryCount += len(entry)
	}
	sort.Strings(s.DocumentIDs)
	return s
}
