// Package chunker splits raw document text into bounded-length fragments
// for embedding and retrieval.
package chunker

import "unicode"

// DefaultMaxLen is the default maximum chunk length in characters.
const DefaultMaxLen = 500

// Split partitions text into chunks of at most maxLen characters.
// It is a pure function: the same input always yields the same chunks.
//
// Boundaries fall only between tokens (runs of whitespace or runs of
// non-whitespace), so a word is never broken across two chunks and the
// original whitespace layout is preserved exactly: concatenating the
// returned chunks in order reproduces the input byte for byte.
//
// A single token longer than maxLen becomes its own chunk rather than
// being truncated. Empty input yields nil. maxLen <= 0 falls back to
// DefaultMaxLen.
func Split(text string, maxLen int) []string {
	if text == "" {
		return nil
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	var chunks []string
	chunkStart := 0 // byte offset of the current chunk
	chunkRunes := 0 // rune count of the current chunk

	for _, tok := range tokenize(text) {
		if chunkRunes > 0 && chunkRunes+tok.runes > maxLen {
			chunks = append(chunks, text[chunkStart:tok.start])
			chunkStart = tok.start
			chunkRunes = 0
		}
		chunkRunes += tok.runes
	}
	chunks = append(chunks, text[chunkStart:])

	return chunks
}

// token is a run of whitespace or a run of non-whitespace.
type token struct {
	start int // byte offset
	runes int
}

func tokenize(text string) []token {
	var tokens []token
	cur := token{}
	inSpace := false

	for i, r := range text {
		space := unicode.IsSpace(r)
		if cur.runes > 0 && space != inSpace {
			tokens = append(tokens, cur)
			cur = token{start: i}
		}
		if cur.runes == 0 {
			cur.start = i
			inSpace = space
		}
		cur.runes++
	}
	if cur.runes > 0 {
		tokens = append(tokens, cur)
	}

	return tokens
}
