//go:build !ocr

package ocr

import (
	"context"
	"image"
)

// Ensure Tesseract implements the interface.
var _ Recognizer = (*Tesseract)(nil)

// Tesseract is a stub for builds without the "ocr" tag: every Recognize
// call reports ErrUnavailable and the pipeline keeps extracted text as-is.
type Tesseract struct {
	language string
}

// NewTesseract creates the stub recognizer.
func NewTesseract(language string) *Tesseract {
	return &Tesseract{language: language}
}

func (t *Tesseract) Recognize(context.Context, image.Image) (*Result, error) {
	return nil, ErrUnavailable
}
