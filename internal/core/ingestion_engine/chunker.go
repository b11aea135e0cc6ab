package ingestion_engine

import (
	"fmt"
)

// Chunker splits document text into overlapping fixed-size segments for
// embedding.
//
// size:    maximum chunk length in runes (e.g., 400).
// overlap: minimum shared context between consecutive chunks (e.g., 100).
type Chunker struct {
	size    int
	overlap int
}

// NewChunker validates the split parameters. overlap >= size is a
// configuration error and fails fast.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split produces ordered substrings of text such that every chunk is at most
// size runes, consecutive chunks share at least overlap runes, and
// concatenating the chunks with the shared regions collapsed reconstructs
// text exactly. Split points prefer paragraph breaks, then line breaks, then
// spaces, and fall back to a hard rune cut only when no better boundary fits
// the size limit. Empty input yields an empty sequence.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for {
		if start+c.size >= n {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}

		end := c.cutPoint(runes, start)
		chunks = append(chunks, string(runes[start:end]))

		// The next chunk begins overlap runes before this one ended, so the
		// pair shares the tail of the previous chunk verbatim.
		start = end - c.overlap
	}
}

// cutPoint picks the split position in (start+overlap, start+size], scanning
// backwards for the highest-priority natural boundary. Candidates below
// start+overlap are excluded so the next chunk always makes forward progress
// while keeping the configured overlap.
func (c *Chunker) cutPoint(runes []rune, start int) int {
	limit := start + c.size
	floor := start + c.overlap

	// Position after a paragraph break.
	for i := limit; i > floor; i-- {
		if i >= 2 && runes[i-1] == '\n' && runes[i-2] == '\n' {
			return i
		}
	}
	// Position after a line break.
	for i := limit; i > floor; i-- {
		if runes[i-1] == '\n' {
			return i
		}
	}
	// Position after a space.
	for i := limit; i > floor; i-- {
		if runes[i-1] == ' ' {
			return i
		}
	}
	return limit
}
