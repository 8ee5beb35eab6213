package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"docchat/internal/chunker"
	"docchat/internal/classify"
	"docchat/internal/document"
	"docchat/internal/embeddings"
	"docchat/internal/index"
	"docchat/internal/ocr"
	"docchat/internal/reader"
)

// Warning records a non-fatal problem encountered during ingestion. The
// pipeline keeps going: a page that fails to extract becomes a gap, an OCR
// or embedding failure degrades that page rather than aborting the document.
type Warning struct {
	Page    int    `json:"page"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("page %d [%s]: %s", w.Page, w.Stage, w.Message)
}

// Result summarizes a completed ingestion run.
type Result struct {
	Doc           *document.Document `json:"document"`
	Warnings      []Warning          `json:"warnings,omitempty"`
	ChunksIndexed int                `json:"chunks_indexed"`
	PagesSkipped  int                `json:"pages_skipped"`
	OCRPages      int                `json:"ocr_pages"`
	Duration      time.Duration      `json:"duration"`
}

// ProgressFunc is called after each page is processed.
type ProgressFunc func(page, total int)

// Pipeline turns a document source into indexed, embedded chunks.
type Pipeline struct {
	embedder   embeddings.Embedder
	store      index.Store
	recognizer ocr.Recognizer
	thresholds classify.Thresholds
	chunkSize  int
	ocrEnabled bool
	onProgress ProgressFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOCR enables the OCR fallback for low-text pages.
func WithOCR(r ocr.Recognizer) Option {
	return func(p *Pipeline) {
		p.recognizer = r
		p.ocrEnabled = r != nil
	}
}

// WithThresholds overrides the default classification cutoffs.
func WithThresholds(t classify.Thresholds) Option {
	return func(p *Pipeline) { p.thresholds = t }
}

// WithChunkSize overrides the default chunk budget.
func WithChunkSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithProgress registers a per-page progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// New creates a Pipeline writing to the given store.
func New(embedder embeddings.Embedder, store index.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		embedder:   embedder,
		store:      store,
		thresholds: classify.DefaultThresholds(),
		chunkSize:  chunker.DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run ingests src under docID. Pages are processed in order; per-page
// failures are recorded as warnings and the page becomes a gap. The index
// entry for docID is replaced in a single Put once every page has been
// processed, so readers never observe a half-ingested document. If ctx is
// cancelled before the final publish, nothing is written.
func (p *Pipeline) Run(ctx context.Context, src reader.Source, docID, title, source string) (*Result, error) {
	start := time.Now()

	total := src.PageCount()

	doc := &document.Document{
		ID:     docID,
		Title:  title,
		Source: source,
		Pages:  make([]document.Page, 0, total),
		Meta:   src.Metadata(),
	}
	if doc.Title == "" {
		doc.Title = src.Title()
	}

	res := &Result{Doc: doc}
	var records []index.Record

	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			// Superseded or cancelled: publish nothing.
			return nil, err
		}

		page, pageRecords := p.processPage(ctx, src, docID, n, res)
		doc.Pages = append(doc.Pages, page)
		records = append(records, pageRecords...)

		if p.onProgress != nil {
			p.onProgress(n, total)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.store.Put(docID, records); err != nil {
		return nil, fmt.Errorf("indexing %s: %w", docID, err)
	}

	res.ChunksIndexed = len(records)
	res.Duration = time.Since(start)
	return res, nil
}

// processPage extracts, OCRs, classifies, chunks and embeds a single page.
// Failures degrade the page and are appended to res.Warnings.
func (p *Pipeline) processPage(ctx context.Context, src reader.Source, docID string, n int, res *Result) (document.Page, []index.Record) {
	page := document.Page{Number: n}

	data, err := src.Page(ctx, n)
	if err != nil {
		res.Warnings = append(res.Warnings, Warning{Page: n, Stage: "extract", Message: err.Error()})
		res.PagesSkipped++
		return page, nil
	}

	page.Text = data.Text
	page.Width = data.Width
	page.Height = data.Height

	if p.ocrEnabled && classify.NeedsOCR(page.Text, p.thresholds) {
		p.runOCR(ctx, src, n, &page, res)
	}

	for _, img := range data.Images {
		kind := classify.ImageKind(img.Rect, p.thresholds)
		page.Images = append(page.Images, document.Image{
			Ref:        img.Ref,
			Rect:       img.Rect,
			Kind:       kind,
			Confidence: kindConfidence(kind),
		})
	}

	page.Confidence = classify.PageConfidence(len(page.Text), len(page.Images))

	spans := chunker.Split(page.Text, p.chunkSize)
	if len(spans) == 0 {
		return page, nil
	}

	vectors := p.embedSpans(ctx, n, spans, res)

	var records []index.Record
	for i, span := range spans {
		if vectors[i] == nil {
			continue
		}
		rec := index.Record{
			DocumentID: docID,
			Page:       n,
			Span:       span,
			Vector:     vectors[i],
			Model:      p.embedder.Name(),
		}
		if len(page.Images) > 0 {
			rec.Rect = page.Images[0].Rect
		}
		records = append(records, rec)
	}
	return page, records
}

// kindConfidence scores the geometry heuristic: aspect and size cutoffs
// are strong signals, the diagram bucket is the default.
func kindConfidence(kind document.ImageKind) float64 {
	switch kind {
	case document.KindChart, document.KindEquation:
		return 0.8
	default:
		return 0.5
	}
}

// runOCR renders the page and appends recognized text. Any failure keeps
// the page's extracted text as-is.
func (p *Pipeline) runOCR(ctx context.Context, src reader.Source, n int, page *document.Page, res *Result) {
	img, err := src.Render(ctx, n)
	if err != nil {
		if !errors.Is(err, reader.ErrRenderUnavailable) {
			log.Printf("render page %d: %v", n, err)
		}
		res.Warnings = append(res.Warnings, Warning{Page: n, Stage: "render", Message: err.Error()})
		return
	}

	out, err := p.recognizer.Recognize(ctx, img)
	if err != nil {
		if !errors.Is(err, ocr.ErrUnavailable) {
			log.Printf("ocr page %d: %v", n, err)
		}
		res.Warnings = append(res.Warnings, Warning{Page: n, Stage: "ocr", Message: err.Error()})
		return
	}

	merged := classify.MergeOCRText(page.Text, out.Text)
	if merged != page.Text {
		page.Text = merged
		page.OCRApplied = true
		res.OCRPages++
	}
}

// embedSpans embeds all spans of a page, preferring one batched call. When
// the batch fails, each span is retried individually so that a single bad
// chunk does not take the whole page out of the index. The returned slice
// is parallel to spans; a nil vector marks a span that could not be
// embedded.
func (p *Pipeline) embedSpans(ctx context.Context, n int, spans []chunker.Span, res *Result) [][]float32 {
	texts := make([]string, len(spans))
	for i, s := range spans {
		texts[i] = s.Text
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err == nil && len(vectors) == len(spans) {
		return vectors
	}
	if err != nil {
		res.Warnings = append(res.Warnings, Warning{Page: n, Stage: "embed", Message: err.Error()})
	}

	out := make([][]float32, len(spans))
	for i, text := range texts {
		if ctx.Err() != nil {
			break
		}
		vs, err := p.embedder.Embed(ctx, []string{text})
		if err != nil || len(vs) != 1 {
			res.Warnings = append(res.Warnings, Warning{
				Page:    n,
				Stage:   "embed",
				Message: fmt.Sprintf("chunk %d: %v", i, err),
			})
			continue
		}
		out[i] = vs[0]
	}
	return out
}
