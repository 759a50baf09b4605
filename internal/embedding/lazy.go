package embedding

import (
	"context"
	"fmt"
	"sync"
)

// Lazy wraps an Embedder factory so that the underlying provider (model
// weights, runtime session) is created on first use and shared for the
// process lifetime. Concurrent first callers race on a single
// initialization and all observe the same result.
type Lazy struct {
	factory func() (Embedder, error)
	dims    int // reported before initialization

	mu   sync.Mutex // guards em, err, done (Close included)
	em   Embedder
	err  error
	done bool
}

// NewLazy returns a Lazy embedder. dimensions is the provider's contracted
// dimension, reported by Dimensions() even before the first Embed call.
func NewLazy(dimensions int, factory func() (Embedder, error)) *Lazy {
	return &Lazy{factory: factory, dims: dimensions}
}

func (l *Lazy) get() (Embedder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.done {
		l.em, l.err = l.factory()
		if l.err != nil {
			l.err = fmt.Errorf("%w: %v", ErrUnavailable, l.err)
		}
		l.done = true
	}
	return l.em, l.err
}

// Embed initializes the provider if needed and embeds text.
func (l *Lazy) Embed(ctx context.Context, text string) ([]float32, error) {
	em, err := l.get()
	if err != nil {
		return nil, err
	}
	return em.Embed(ctx, text)
}

// EmbedBatch initializes the provider if needed and embeds all texts.
func (l *Lazy) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	em, err := l.get()
	if err != nil {
		return nil, err
	}
	return em.EmbedBatch(ctx, texts)
}

// Dimensions returns the contracted embedding dimension.
func (l *Lazy) Dimensions() int {
	return l.dims
}

// Close closes the underlying provider if it was initialized. It never
// triggers initialization itself.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.em != nil {
		return l.em.Close()
	}
	return nil
}
