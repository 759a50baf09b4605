// Package index provides document chunking, identity generation, and index
// management over the vector store.
package index

import (
	"fmt"
	"strings"
)

// Chunker splits text into overlapping fixed-size windows. Size and overlap
// are in characters (Unicode code points) of the normalized text.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. size must be positive and overlap must be
// in [0, size); anything else fails fast rather than produce zero-progress
// windows.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidChunking, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidChunking, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk slides a window of size characters across text, advancing
// size-overlap each step. Windows are trimmed and dropped if empty.
// Identical input always yields the identical sequence, since chunk
// position feeds identity generation. Text shorter than the window
// yields a single chunk.
func (c *Chunker) Chunk(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	var chunks []string
	step := c.size - c.overlap
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Size returns the window width in characters.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the window overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }
