// Package grounding assembles the context block sent to the language model:
// the user's selection, the most relevant document excerpts, and the recent
// conversation, in that order.
package grounding

import (
	"fmt"
	"strings"

	"docchat/internal/document"
	"docchat/internal/index"
)

// Excerpt is one retrieved piece of document text with its page.
type Excerpt struct {
	Page  int     `json:"page"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// FromScored converts ranked index results into excerpts.
func FromScored(ranked []index.ScoredRecord) []Excerpt {
	out := make([]Excerpt, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, Excerpt{Page: r.Page, Text: r.Span.Text, Score: r.Score})
	}
	return out
}

// Input is everything the assembler draws on for one question.
type Input struct {
	Selection document.Selection
	Excerpts  []Excerpt
	History   []document.Turn
}

// Assembler builds grounding context strings. The zero value uses no history
// bound and no length cap.
type Assembler struct {
	// HistoryTurns caps how many recent turns are included. Non-positive
	// includes all provided turns.
	HistoryTurns int

	// MaxChars caps the assembled context length. Non-positive means no cap.
	// Trimming removes whole trailing sections before cutting text, and the
	// selection is never trimmed away.
	MaxChars int
}

// Build assembles the grounding context. When a selection is present its
// text appears first, verbatim, before any label or excerpt. Excerpts keep
// their given (ranked) order; history is included oldest first.
func (a *Assembler) Build(in Input) string {
	var sections []string

	if in.Selection != nil {
		if text := in.Selection.GroundingText(); text != "" {
			sections = append(sections, text)
			sections = append(sections, fmt.Sprintf("(Selection from page %d.)", in.Selection.PageNumber()))
		}
	}

	if len(in.Excerpts) > 0 {
		var b strings.Builder
		b.WriteString("Relevant excerpts from the document:")
		for _, e := range in.Excerpts {
			b.WriteString(fmt.Sprintf("\n[page %d] %s", e.Page, e.Text))
		}
		sections = append(sections, b.String())
	}

	turns := in.History
	if a.HistoryTurns > 0 && len(turns) > a.HistoryTurns {
		turns = turns[len(turns)-a.HistoryTurns:]
	}
	if len(turns) > 0 {
		var b strings.Builder
		b.WriteString("Recent conversation:")
		for _, t := range turns {
			b.WriteString(fmt.Sprintf("\n%s: %s", roleLabel(t.Role), t.Content))
		}
		sections = append(sections, b.String())
	}

	return a.trim(sections)
}

func roleLabel(r document.Role) string {
	if r == document.RoleAssistant {
		return "Assistant"
	}
	return "User"
}

// trim joins sections and enforces MaxChars. Whole trailing sections are
// dropped first; the first section (the selection, when present) survives
// even if it must be cut mid-text.
func (a *Assembler) trim(sections []string) string {
	joined := strings.Join(sections, "\n\n")
	if a.MaxChars <= 0 || len(joined) <= a.MaxChars {
		return joined
	}

	for len(sections) > 1 {
		sections = sections[:len(sections)-1]
		joined = strings.Join(sections, "\n\n")
		if len(joined) <= a.MaxChars {
			return joined
		}
	}
	return joined[:a.MaxChars]
}
