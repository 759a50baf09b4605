// Package store defines the vector store: persistence and similarity search
// for chunk records.
package store

import (
	"context"
	"errors"

	"github.com/sciencestudio/libris/internal/models"
)

// ErrUnavailable indicates the underlying store cannot be reached or is
// corrupt. Implementations wrap it so callers can match with errors.Is.
var ErrUnavailable = errors.New("vector store unavailable")

// Hit is a single similarity search result.
type Hit struct {
	Record     *models.ChunkRecord
	Similarity float64 // cosine similarity for unit vectors (1.0 = identical)
}

// Store persists chunk records and answers nearest-neighbor queries.
// Vector dimension is uniform across all records in a store; the first
// inserted record fixes it. Implementations are safe for concurrent use.
type Store interface {
	// Insert stores the given records. IDs already present are an error;
	// callers replace a document by deleting its source first.
	Insert(ctx context.Context, records []*models.ChunkRecord) error

	// DeleteBySource removes all records whose source matches and returns
	// how many were removed. A non-matching source is a successful no-op
	// returning zero, never an error.
	DeleteBySource(ctx context.Context, source string) (int, error)

	// Query returns the top-k records ranked by similarity to the given
	// vector, non-increasing. Ties keep insertion order.
	Query(ctx context.Context, vector []float32, k int) ([]*Hit, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// ScanAll returns metadata for every stored record.
	ScanAll(ctx context.Context) ([]*models.ChunkMeta, error)

	Close() error
}
