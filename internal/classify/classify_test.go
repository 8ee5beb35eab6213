package classify

import (
	"strings"
	"testing"

	"docchat/internal/document"
)

func TestNeedsOCR_Boundary(t *testing.T) {
	th := DefaultThresholds()

	if !NeedsOCR(strings.Repeat("a", 49), th) {
		t.Error("49 chars: want OCR")
	}
	if NeedsOCR(strings.Repeat("a", 50), th) {
		t.Error("50 chars: want no OCR")
	}
	if !NeedsOCR("", th) {
		t.Error("empty text: want OCR")
	}
	// Surrounding whitespace does not count toward the length.
	if !NeedsOCR("  "+strings.Repeat("a", 49)+"  ", th) {
		t.Error("padded 49 chars: want OCR")
	}
}

func TestMergeOCRText(t *testing.T) {
	tests := []struct {
		name       string
		existing   string
		recognized string
		want       string
	}{
		{"empty page gets trimmed ocr", "", "  recognized text \n", "recognized text"},
		{"ocr appended after newline", "extracted", "recognized", "extracted\nrecognized"},
		{"empty ocr keeps page as-is", "extracted", "   ", "extracted"},
		{"whitespace-only page treated as empty", "  \n ", "recognized", "recognized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeOCRText(tt.existing, tt.recognized); got != tt.want {
				t.Errorf("MergeOCRText(%q, %q) = %q, want %q", tt.existing, tt.recognized, got, tt.want)
			}
		})
	}
}

func TestImageKind(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name string
		rect document.Rect
		want document.ImageKind
	}{
		{"wide is chart", document.Rect{Width: 300, Height: 100}, document.KindChart},
		{"tall is chart", document.Rect{Width: 100, Height: 300}, document.KindChart},
		{"small is equation", document.Rect{Width: 80, Height: 60}, document.KindEquation},
		{"regular is diagram", document.Rect{Width: 200, Height: 150}, document.KindDiagram},
		{"aspect exactly 2 is not a chart", document.Rect{Width: 200, Height: 100}, document.KindDiagram},
		{"aspect exactly 0.5 is not a chart", document.Rect{Width: 100, Height: 200}, document.KindDiagram},
		{"small but extreme aspect is chart", document.Rect{Width: 90, Height: 10}, document.KindChart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageKind(tt.rect, th); got != tt.want {
				t.Errorf("ImageKind(%+v) = %s, want %s", tt.rect, got, tt.want)
			}
		})
	}
}

func TestPageConfidence(t *testing.T) {
	tests := []struct {
		textLen, images int
		want            float64
	}{
		{0, 0, 0.5},
		{101, 0, 0.8},
		{51, 0, 0.7},
		{100, 0, 0.7},
		{50, 0, 0.5},
		{101, 2, 0.9},
		{0, 1, 0.6},
	}
	for _, tt := range tests {
		got := PageConfidence(tt.textLen, tt.images)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("PageConfidence(%d, %d) = %v, want %v", tt.textLen, tt.images, got, tt.want)
		}
	}
}

func TestPageConfidence_Capped(t *testing.T) {
	// Base 0.5 + 0.3 + 0.1 = 0.9; the cap only matters if the formula grows,
	// but it must never exceed 1.0.
	if got := PageConfidence(10_000, 10); got > 1.0 {
		t.Errorf("confidence %v exceeds 1.0", got)
	}
}
