package reader

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docchat/internal/document"
)

// PDFSource extracts page text from a PDF file. It has no rasterizer, so
// Render reports ErrRenderUnavailable and OCR is skipped for its pages.
type PDFSource struct {
	file   *os.File
	reader *pdf.Reader
	path   string
}

// OpenPDF opens the PDF at path for page-by-page extraction.
func OpenPDF(path string) (*PDFSource, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &PDFSource{file: f, reader: r, path: path}, nil
}

func (s *PDFSource) Title() string {
	if t := s.infoString("Title"); t != "" {
		return t
	}
	return strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
}

func (s *PDFSource) PageCount() int { return s.reader.NumPage() }

func (s *PDFSource) Page(ctx context.Context, n int) (*PageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := s.reader.Page(n)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d is null", n)
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return nil, fmt.Errorf("extract text from page %d: %w", n, err)
	}

	data := &PageData{Text: text}
	if mb := p.V.Key("MediaBox"); mb.Len() == 4 {
		data.Width = mb.Index(2).Float64() - mb.Index(0).Float64()
		data.Height = mb.Index(3).Float64() - mb.Index(1).Float64()
	}
	return data, nil
}

func (s *PDFSource) Render(context.Context, int) (image.Image, error) {
	return nil, ErrRenderUnavailable
}

func (s *PDFSource) Metadata() document.Metadata {
	meta := document.Metadata{
		Author:  s.infoString("Author"),
		Subject: s.infoString("Subject"),
	}
	if kw := s.infoString("Keywords"); kw != "" {
		for _, k := range strings.FieldsFunc(kw, func(r rune) bool { return r == ',' || r == ';' }) {
			if k = strings.TrimSpace(k); k != "" {
				meta.Keywords = append(meta.Keywords, k)
			}
		}
	}
	return meta
}

func (s *PDFSource) Close() error { return s.file.Close() }

func (s *PDFSource) infoString(key string) string {
	info := s.reader.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	return strings.TrimSpace(info.Key(key).Text())
}

// Open resolves a locator to a Source by file extension. It is the default
// Opener used by the engine.
func Open(locator string) (Source, error) {
	switch strings.ToLower(filepath.Ext(locator)) {
	case ".pdf":
		return OpenPDF(locator)
	default:
		return nil, fmt.Errorf("unsupported document type %q", filepath.Ext(locator))
	}
}
