package index

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sciencestudio/libris/internal/embedding"
	"github.com/sciencestudio/libris/internal/models"
	"github.com/sciencestudio/libris/internal/store"
)

// Manager orchestrates document ingestion: chunking, embedding, identity
// generation, and atomic replacement of a source's records in the store.
type Manager struct {
	store    store.Store
	embedder embedding.Embedder
	chunker  *Chunker
	logger   *zap.Logger // optional; when set, logs ingest events

	locks *sourceLocks
}

// sourceLocks serializes ingestion per source key. Ingests of different
// sources never contend.
type sourceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSourceLocks() *sourceLocks {
	return &sourceLocks{locks: make(map[string]*sync.Mutex)}
}

func (s *sourceLocks) get(source string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[source]
	if !ok {
		l = &sync.Mutex{}
		s.locks[source] = l
	}
	return l
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets a logger for ingest events.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an index manager with the given dependencies.
func NewManager(st store.Store, embedder embedding.Embedder, chunker *Chunker, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    st,
		embedder: embedder,
		chunker:  chunker,
		locks:    newSourceLocks(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ingest indexes text under source, replacing any prior generation of
// records for that source. Embeddings are requested in one batch before any
// store mutation, so a failed embed leaves the prior generation intact.
// The replace itself runs under a per-source lock: the old set is deleted,
// then the new set inserted. A concurrent query in that window sees reduced
// recall for this source, never a mix of two generations.
//
// Re-ingesting unchanged text is idempotent: same chunk count, same
// identities, and the delete step removes exactly the prior run's records.
func (m *Manager) Ingest(ctx context.Context, source, text string, meta models.DocumentMeta) (*models.IngestResult, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}
	normalized := Normalize(text)
	if normalized == "" {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyContent)
	}

	chunks := m.chunker.Chunk(normalized)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoChunks)
	}

	title := meta.Title
	if title == "" {
		title = TitleFromSource(source)
	}
	author := meta.Author
	if author == "" {
		author = "Unknown"
	}

	embeddings, err := m.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks for %s: %w", source, err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	records := make([]*models.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = &models.ChunkRecord{
			ID:          ChunkID(source, i),
			Content:     chunk,
			Embedding:   embeddings[i],
			Source:      source,
			Title:       title,
			Author:      author,
			ChunkIndex:  i,
			TotalChunks: len(chunks),
		}
	}

	opID := uuid.NewString()

	lock := m.locks.get(source)
	lock.Lock()
	defer lock.Unlock()

	replaced, err := m.store.DeleteBySource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("delete previous generation of %s: %w", source, err)
	}
	if err := m.store.Insert(ctx, records); err != nil {
		return nil, fmt.Errorf("insert records for %s: %w", source, err)
	}

	if m.logger != nil {
		m.logger.Info("document indexed",
			zap.String("op_id", opID),
			zap.String("source", source),
			zap.String("title", title),
			zap.Int("chunks", len(records)),
			zap.Int("replaced", replaced),
		)
	}
	return &models.IngestResult{Source: source, Title: title, ChunksIndexed: len(records)}, nil
}

// TitleFromSource derives a default title from a source key: the base name
// without extension.
func TitleFromSource(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
