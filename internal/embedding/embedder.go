// Package embedding provides text embedding via ONNX, with caching and a
// lazily initialized process-wide provider.
package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the embedding provider cannot be reached or
// failed to produce embeddings. Implementations wrap it so callers can
// match with errors.Is.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Embedder produces vector embeddings for text. EmbedBatch returns one
// vector per input in input order; all vectors have Dimensions() length
// for the lifetime of the instance, and are unit-normalized so that inner
// product equals cosine similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
