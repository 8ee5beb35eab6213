// Package engine is the session facade: it owns the index, the ingestion
// pipeline, retrieval, and the answer path. One Engine serves one session;
// there is no package-level state.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"docchat/internal/document"
	"docchat/internal/embeddings"
	"docchat/internal/grounding"
	"docchat/internal/index"
	"docchat/internal/llm"
	"docchat/internal/pipeline"
	"docchat/internal/reader"
)

const systemPrompt = "You are a document assistant. Answer strictly from the provided document context. If the context does not contain the answer, say so instead of guessing."

// Options wires an Engine's collaborators.
type Options struct {
	Open     reader.Opener
	Embedder embeddings.Embedder
	Provider llm.Provider
	Store    index.Store
	Pipeline *pipeline.Pipeline

	Model           string
	TopK            int
	HistoryTurns    int
	MaxContextChars int
}

// Engine coordinates ingestion and question answering over a set of
// documents.
type Engine struct {
	open      reader.Opener
	embedder  embeddings.Embedder
	provider  llm.Provider
	store     index.Store
	pipe      *pipeline.Pipeline
	assembler *grounding.Assembler
	model     string
	topK      int

	mu       sync.Mutex
	gen      uint64
	docs     map[string]*document.Document
	inflight map[string]ingestHandle
}

type ingestHandle struct {
	cancel context.CancelFunc
	gen    uint64
}

// New creates an Engine. Store and Embedder are required; Provider may be
// nil for grounding-only use, and Open may be nil when ingestion is driven
// with pre-opened sources.
func New(opts Options) *Engine {
	topK := opts.TopK
	if topK <= 0 {
		topK = index.DefaultTopK
	}
	pipe := opts.Pipeline
	if pipe == nil {
		pipe = pipeline.New(opts.Embedder, opts.Store)
	}
	return &Engine{
		open:     opts.Open,
		embedder: opts.Embedder,
		provider: opts.Provider,
		store:    opts.Store,
		pipe:     pipe,
		assembler: &grounding.Assembler{
			HistoryTurns: opts.HistoryTurns,
			MaxChars:     opts.MaxContextChars,
		},
		model:    opts.Model,
		topK:     topK,
		docs:     make(map[string]*document.Document),
		inflight: make(map[string]ingestHandle),
	}
}

// Ingest opens locator and indexes it under docID. Starting a new ingestion
// for the same document id cancels any in-flight one: the later call wins
// and a cancelled run publishes nothing.
func (e *Engine) Ingest(ctx context.Context, locator, docID, title string) (*pipeline.Result, error) {
	if e.open == nil {
		return nil, fmt.Errorf("engine: no document opener configured")
	}
	src, err := e.open(locator)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", locator, err)
	}
	defer src.Close()
	return e.IngestSource(ctx, src, docID, title, locator)
}

// IngestSource indexes an already-open source under docID.
func (e *Engine) IngestSource(ctx context.Context, src reader.Source, docID, title, source string) (*pipeline.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	e.gen++
	myGen := e.gen
	if prev, ok := e.inflight[docID]; ok {
		prev.cancel()
	}
	e.inflight[docID] = ingestHandle{cancel: cancel, gen: myGen}
	e.mu.Unlock()

	res, err := e.pipe.Run(runCtx, src, docID, title, source)

	e.mu.Lock()
	// Only clear our own registration; a newer ingest may have replaced it.
	if h, ok := e.inflight[docID]; ok && h.gen == myGen {
		delete(e.inflight, docID)
	}
	if err == nil {
		e.docs[docID] = res.Doc
	}
	e.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return res, nil
}

// Document returns the ingested document for docID, if any.
func (e *Engine) Document(docID string) (*document.Document, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.docs[docID]
	return doc, ok
}

// Documents returns all ingested documents.
func (e *Engine) Documents() []*document.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*document.Document, 0, len(e.docs))
	for _, d := range e.docs {
		out = append(out, d)
	}
	return out
}

// QueryResult is the retrieval outcome for one question.
type QueryResult struct {
	Excerpts []grounding.Excerpt `json:"excerpts"`
	// Fallback is true when keyword overlap was used instead of vector
	// similarity (embedding backend unavailable or zero query vector).
	Fallback bool `json:"fallback"`
}

// Query retrieves the excerpts most relevant to question within docID.
// Retrieval never fails outright: when the question cannot be embedded or
// embeds to a zero vector, keyword overlap over the document's pages is
// used instead.
func (e *Engine) Query(ctx context.Context, docID, question string) *QueryResult {
	records, indexed := e.store.Get(docID)

	if indexed {
		vectors, err := e.embedder.Embed(ctx, []string{question})
		if err == nil && len(vectors) == 1 {
			if ranked := index.Search(vectors[0], records, e.topK); len(ranked) > 0 {
				return &QueryResult{Excerpts: grounding.FromScored(ranked)}
			}
		}
	}

	var pages []document.Page
	if doc, ok := e.Document(docID); ok {
		pages = doc.Pages
	}
	return &QueryResult{
		Excerpts: grounding.KeywordFallback(question, pages, e.topK),
		Fallback: true,
	}
}

// GroundingContext assembles the context block for a question without
// calling the model.
func (e *Engine) GroundingContext(ctx context.Context, docID, question string, sel document.Selection, history []document.Turn) (string, *QueryResult) {
	res := e.Query(ctx, docID, question)
	text := e.assembler.Build(grounding.Input{
		Selection: sel,
		Excerpts:  res.Excerpts,
		History:   history,
	})
	return text, res
}

// AnswerRecord is an immutable record of one answered question.
type AnswerRecord struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Question   string    `json:"question"`
	Grounding  string    `json:"grounding"`
	Answer     string    `json:"answer"`
	Model      string    `json:"model"`
	At         time.Time `json:"at"`
}

// Answer grounds question in docID's content and asks the model. The
// returned record is a value: callers cannot mutate history once written.
func (e *Engine) Answer(ctx context.Context, docID, question string, sel document.Selection, history []document.Turn) (*AnswerRecord, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("engine: no model provider configured")
	}

	groundingText, _ := e.GroundingContext(ctx, docID, question, sel, history)

	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}
	if groundingText != "" {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: "Document context:\n" + groundingText})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	resp, err := e.provider.Complete(ctx, llm.Request{Model: e.model, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("completing answer: %w", err)
	}

	return &AnswerRecord{
		ID:         uuid.NewString(),
		DocumentID: docID,
		Question:   question,
		Grounding:  groundingText,
		Answer:     resp.Content,
		Model:      resp.Model,
		At:         time.Now(),
	}, nil
}

// IndexStats reports the index's entry count and document ids.
func (e *Engine) IndexStats() index.Stats { return e.store.Stats() }
