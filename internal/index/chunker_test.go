package index

import (
	"errors"
	"strings"
	"testing"
)

func TestNewChunker_invalidParams(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -5, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.size, tt.overlap)
			if !errors.Is(err, ErrInvalidChunking) {
				t.Errorf("NewChunker(%d, %d) error = %v, want ErrInvalidChunking", tt.size, tt.overlap, err)
			}
		})
	}
}

func TestChunker_windowScenario(t *testing.T) {
	// 2400 characters with size 1000 and overlap 200 yields windows at
	// offsets 0, 800, and 1600, the last truncated.
	c, err := NewChunker(1000, 200)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("a", 2400)
	chunks := c.Chunk(text)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if len(chunks[0]) != 1000 || len(chunks[1]) != 1000 {
		t.Errorf("full window lengths: %d, %d", len(chunks[0]), len(chunks[1]))
	}
	if len(chunks[2]) != 800 {
		t.Errorf("last window length = %d, want 800", len(chunks[2]))
	}
}

func TestChunker_shortText(t *testing.T) {
	c, _ := NewChunker(1000, 200)
	chunks := c.Chunk("a short document")
	if len(chunks) != 1 || chunks[0] != "a short document" {
		t.Errorf("short text: got %v", chunks)
	}
}

func TestChunker_emptyText(t *testing.T) {
	c, _ := NewChunker(10, 2)
	if got := c.Chunk(""); got != nil {
		t.Errorf("empty text: got %v", got)
	}
	if got := c.Chunk("     "); got != nil {
		t.Errorf("whitespace text: got %v", got)
	}
}

func TestChunker_deterministic(t *testing.T) {
	c, _ := NewChunker(7, 3)
	text := "the quick brown fox jumps over the lazy dog"
	a := c.Chunk(text)
	b := c.Chunk(text)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestChunker_coverage(t *testing.T) {
	// Every character of the input appears in some window: the stride is
	// size-overlap, so consecutive windows leave no gap.
	c, _ := NewChunker(4, 1)
	text := "abcdefghij"
	chunks := c.Chunk(text)
	joined := strings.Join(chunks, "")
	for _, r := range text {
		if !strings.ContainsRune(joined, r) {
			t.Errorf("character %q missing from chunks %v", r, chunks)
		}
	}
	// Stride 3 over 10 characters: windows at 0, 3, 6, 9.
	if len(chunks) != 4 {
		t.Errorf("got %d chunks, want 4", len(chunks))
	}
}

func TestChunker_multibyte(t *testing.T) {
	// Size is in characters, not bytes; multibyte runes must not be split.
	c, _ := NewChunker(3, 0)
	chunks := c.Chunk("日本語のテキスト")
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks: %v", len(chunks), chunks)
	}
	if chunks[0] != "日本語" {
		t.Errorf("first chunk = %q", chunks[0])
	}
}
