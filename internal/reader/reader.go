// Package reader defines the contract with the document-rendering engine
// and the concrete sources that implement it. Rasterization and extraction
// internals stay behind the Source interface.
package reader

import (
	"context"
	"errors"
	"image"

	"docchat/internal/document"
)

// ErrRenderUnavailable reports that a source cannot rasterize pages. The
// pipeline skips OCR for such pages and keeps the extracted text as-is.
var ErrRenderUnavailable = errors.New("page rendering unavailable")

// PageData is the raw per-page output of a rendering engine.
type PageData struct {
	Text   string
	Images []PageImage
	Width  float64
	Height float64
}

// PageImage is an embedded image reference with page coordinates.
type PageImage struct {
	Ref  string
	Rect document.Rect
}

// Source is a paginated document opened for ingestion.
type Source interface {
	// Title returns a display title for the document.
	Title() string

	// PageCount returns the number of pages.
	PageCount() int

	// Page extracts the text and embedded images of the 1-based page n.
	Page(ctx context.Context, n int) (*PageData, error)

	// Render rasterizes the 1-based page n for OCR. Sources without a
	// rasterizer return ErrRenderUnavailable.
	Render(ctx context.Context, n int) (image.Image, error)

	// Metadata returns document-level properties.
	Metadata() document.Metadata

	// Close releases the underlying file handles.
	Close() error
}

// Opener resolves a document locator to an open Source.
type Opener func(locator string) (Source, error)
