package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sciencestudio/libris/internal/models"
)

// MemoryStore is an in-memory Store using brute-force similarity search.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*models.ChunkRecord
	dim     int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert appends copies of the given records. A batch that fails validation
// leaves the store untouched, including its dimension.
func (m *MemoryStore) Insert(ctx context.Context, records []*models.ChunkRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	dim, err := checkBatchDimension(records, m.dim)
	if err != nil {
		return err
	}
	for _, rec := range records {
		cp := *rec
		cp.Embedding = append([]float32(nil), rec.Embedding...)
		m.records = append(m.records, &cp)
	}
	m.dim = dim
	return nil
}

// DeleteBySource removes all records for source and returns the count removed.
func (m *MemoryStore) DeleteBySource(ctx context.Context, source string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	removed := 0
	for _, rec := range m.records {
		if rec.Source == source {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	m.records = kept
	return removed, nil
}

// Query returns the top-k records by similarity, non-increasing. Ties keep
// insertion order.
func (m *MemoryStore) Query(ctx context.Context, vector []float32, k int) ([]*Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.dim != 0 && len(vector) != m.dim {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(vector), m.dim)
	}
	if k <= 0 || len(m.records) == 0 {
		return nil, nil
	}
	hits := make([]*Hit, len(m.records))
	for i, rec := range m.records {
		hits[i] = &Hit{Record: rec, Similarity: dotProduct(vector, rec.Embedding)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// ScanAll returns metadata for every stored record in insertion order.
func (m *MemoryStore) ScanAll(ctx context.Context) ([]*models.ChunkMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	metas := make([]*models.ChunkMeta, len(m.records))
	for i, rec := range m.records {
		metas[i] = &models.ChunkMeta{
			ID:          rec.ID,
			Source:      rec.Source,
			Title:       rec.Title,
			Author:      rec.Author,
			ChunkIndex:  rec.ChunkIndex,
			TotalChunks: rec.TotalChunks,
		}
	}
	return metas, nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}
