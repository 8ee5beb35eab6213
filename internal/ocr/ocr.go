// Package ocr defines the contract with the optical character recognition
// engine. Recognition internals stay behind the Recognizer interface; when
// no engine is available the pipeline keeps extracted text as-is.
package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable reports that no OCR engine is available. OCR is silently
// skipped and the page's extracted text is kept unchanged.
var ErrUnavailable = errors.New("ocr unavailable")

// Result is the recognized text of a page bitmap with the engine's mean
// word confidence in [0,1].
type Result struct {
	Text       string
	Confidence float64
}

// Recognizer converts a rasterized page bitmap to text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (*Result, error)
}
