// Package chunker splits page text into bounded-size, word-safe chunks.
// Chunks are the unit of embedding and retrieval.
package chunker

import "unicode"

// DefaultMaxSize is the approximate character budget per chunk.
const DefaultMaxSize = 512

// Span is a contiguous run of a page's text. Start and End are true byte
// offsets into the original text; Text is the original slice between them,
// so internal whitespace is preserved.
type Span struct {
	Start int
	End   int
	Text  string
}

type word struct {
	start, end int
}

// Split chunks text by greedy word accumulation: words are added to the
// current chunk until adding the next one would exceed maxSize, then a new
// chunk starts. Words are never split; a single word longer than the budget
// becomes its own chunk. Empty or all-whitespace text yields no chunks.
func Split(text string, maxSize int) []Span {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	words := scanWords(text)
	if len(words) == 0 {
		return nil
	}

	var spans []Span
	cur := words[0]
	for _, w := range words[1:] {
		// Chunk length is measured over the original text so it includes
		// the whitespace between accumulated words.
		if w.end-cur.start > maxSize {
			spans = append(spans, Span{Start: cur.start, End: cur.end, Text: text[cur.start:cur.end]})
			cur = w
			continue
		}
		cur.end = w.end
	}
	spans = append(spans, Span{Start: cur.start, End: cur.end, Text: text[cur.start:cur.end]})
	return spans
}

// scanWords returns the byte offsets of each whitespace-delimited word.
func scanWords(text string) []word {
	var words []word
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, word{start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, word{start: start, end: len(text)})
	}
	return words
}
