package grounding

import (
	"strings"
	"unicode"

	"docchat/internal/chunker"
	"docchat/internal/document"
)

// DefaultFallbackPages caps how many pages the keyword fallback returns.
const DefaultFallbackPages = 5

// KeywordFallback retrieves excerpts by token overlap when no usable query
// vector exists (embedding backend down, or a query that embeds to zero).
// A page qualifies when it shares at least one token with the question;
// qualifying pages are returned in page order, up to limit. Scores are zero:
// overlap is a yes/no signal, not a ranking.
func KeywordFallback(question string, pages []document.Page, limit int) []Excerpt {
	if limit <= 0 {
		limit = DefaultFallbackPages
	}

	want := tokenSet(question)
	if len(want) == 0 {
		return nil
	}

	var out []Excerpt
	for _, p := range pages {
		if len(out) >= limit {
			break
		}
		if !sharesToken(p.Text, want) {
			continue
		}
		out = append(out, Excerpt{Page: p.Number, Text: snippet(p.Text)})
	}
	return out
}

// tokenSet lowercases and splits on anything that is not a letter or digit.
func tokenSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func sharesToken(text string, want map[string]struct{}) bool {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		if _, ok := want[f]; ok {
			return true
		}
	}
	return false
}

// snippet bounds a fallback excerpt to one chunk-sized, word-safe prefix.
func snippet(text string) string {
	spans := chunker.Split(text, chunker.DefaultMaxSize)
	if len(spans) == 0 {
		return ""
	}
	return spans[0].Text
}
