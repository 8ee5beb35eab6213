package document

import "time"

// Document is a paginated document produced by ingestion. A new ingestion
// builds a fresh Document; the previous one for the same id is discarded.
type Document struct {
	ID     string
	Title  string
	Source string
	Pages  []Page
	Meta   Metadata
}

// Metadata holds document-level properties read from the source file.
type Metadata struct {
	Author   string
	Subject  string
	Keywords []string
	Created  time.Time
	Modified time.Time
}

// Page is a single document page. Number is 1-based and matches source
// order. Text may have been augmented by OCR (OCRApplied reports that).
type Page struct {
	Number     int
	Text       string
	Images     []Image
	Width      float64
	Height     float64
	Confidence float64
	OCRApplied bool
}

// ImageKind classifies a detected page image.
type ImageKind string

const (
	KindImage    ImageKind = "image"
	KindDiagram  ImageKind = "diagram"
	KindChart    ImageKind = "chart"
	KindEquation ImageKind = "equation"
)

// Image is a bitmap detected on a page, with its classified kind and the
// classifier's confidence in [0,1].
type Image struct {
	Ref        string
	Rect       Rect
	Kind       ImageKind
	Confidence float64
}

// Rect is a page-coordinate rectangle.
type Rect struct {
	X, Y          float64
	Width, Height float64
}
