// Package classify holds the page-level heuristics: when OCR should
// supplement extraction, what kind of figure a detected image is, and how
// confident we are in a page's extracted content. All decision rules are
// pure functions over a Thresholds struct so they can be tuned from
// configuration and tested without code edits.
package classify

import (
	"strings"

	"docchat/internal/document"
)

// Thresholds are the tunable cutoffs for the classification heuristics.
type Thresholds struct {
	// OCRMinTextLen is the extracted-text length below which a page is
	// treated as low-confidence and OCR runs against its rendered bitmap.
	OCRMinTextLen int

	// ChartAspectHigh / ChartAspectLow bound the aspect ratios outside of
	// which an image is classified as a chart.
	ChartAspectHigh float64
	ChartAspectLow  float64

	// EquationMaxDim is the pixel size under which (in both dimensions) an
	// image is classified as an inline equation.
	EquationMaxDim float64
}

// DefaultThresholds returns the stock heuristic cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OCRMinTextLen:   50,
		ChartAspectHigh: 2.0,
		ChartAspectLow:  0.5,
		EquationMaxDim:  100,
	}
}

// NeedsOCR reports whether a page's extracted text is too short to trust.
// The comparison is strict: a page at exactly the threshold is kept as-is.
func NeedsOCR(text string, t Thresholds) bool {
	return len(strings.TrimSpace(text)) < t.OCRMinTextLen
}

// MergeOCRText appends recognized text to the page's extracted text after a
// newline. Existing text is never replaced or reordered.
func MergeOCRText(existing, recognized string) string {
	recognized = strings.TrimSpace(recognized)
	if recognized == "" {
		return existing
	}
	if strings.TrimSpace(existing) == "" {
		return recognized
	}
	return existing + "\n" + recognized
}

// ImageKind classifies a detected image by its geometry: extreme aspect
// ratios read as charts, small boxes as equations, everything else as a
// diagram.
func ImageKind(rect document.Rect, t Thresholds) document.ImageKind {
	if rect.Height > 0 {
		aspect := rect.Width / rect.Height
		if aspect > t.ChartAspectHigh || aspect < t.ChartAspectLow {
			return document.KindChart
		}
	}
	if rect.Width < t.EquationMaxDim && rect.Height < t.EquationMaxDim {
		return document.KindEquation
	}
	return document.KindDiagram
}

// PageConfidence scores how reliable a page's content looks: 0.5 base,
// +0.3 for substantial text (>100 chars), +0.2 for moderate text
// (50..100], +0.1 when at least one image is present, capped at 1.0.
func PageConfidence(textLen, imageCount int) float64 {
	score := 0.5
	switch {
	case textLen > 100:
		score += 0.3
	case textLen > 50:
		score += 0.2
	}
	if imageCount > 0 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
