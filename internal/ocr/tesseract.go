//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes page bitmaps with a local Tesseract installation
// via gosseract. Built only with the "ocr" tag since it needs the
// Tesseract C libraries.
type Tesseract struct {
	language string
}

// NewTesseract creates a Tesseract-backed recognizer. language defaults to
// "eng" when empty.
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}
}

func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page bitmap: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, fmt.Errorf("%w: set language %q: %v", ErrUnavailable, t.language, err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: load bitmap: %v", ErrUnavailable, err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: recognize: %v", ErrUnavailable, err)
	}

	return &Result{Text: text, Confidence: t.meanConfidence(client)}, nil
}

// meanConfidence averages per-word confidences, scaled to [0,1].
func (t *Tesseract) meanConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes)) / 100.0
}
