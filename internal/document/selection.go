package document

import "fmt"

// Selection is an ephemeral user selection supplied per query. It is never
// stored; the assembler includes its grounding text ahead of everything else.
type Selection interface {
	// GroundingText returns the text to place at the top of the grounding
	// context. For text selections this is the selected text verbatim.
	GroundingText() string

	// PageNumber returns the 1-based page the selection was made on.
	PageNumber() int
}

// TextSelection is a span of selected text on a page.
type TextSelection struct {
	Text string
	Page int
	Rect Rect
}

func (s TextSelection) GroundingText() string { return s.Text }
func (s TextSelection) PageNumber() int       { return s.Page }

// AreaSelection is a rectangular region the user marked on a page,
// typically around a figure.
type AreaSelection struct {
	Page int
	Rect Rect
	Kind ImageKind
}

func (s AreaSelection) GroundingText() string {
	kind := s.Kind
	if kind == "" {
		kind = KindImage
	}
	return fmt.Sprintf("The user selected a %s region on page %d of the document.", kind, s.Page)
}

func (s AreaSelection) PageNumber() int { return s.Page }
