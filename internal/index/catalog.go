package index

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/sciencestudio/libris/internal/models"
	"github.com/sciencestudio/libris/internal/store"
)

// Catalog derives the list of indexed documents from store metadata.
// Documents exist only implicitly as the common source value of their chunk
// records; no separate document table is kept.
type Catalog struct {
	store  store.Store
	locks  *sourceLocks // optional; shared with a Manager so Remove cannot interleave with an ingest of the same source
	logger *zap.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithManagerLocks shares m's per-source locks with the catalog, so a
// Remove for a source serializes with ingests of that source.
func WithManagerLocks(m *Manager) CatalogOption {
	return func(c *Catalog) { c.locks = m.locks }
}

// WithCatalogLogger sets a logger for removal events.
func WithCatalogLogger(l *zap.Logger) CatalogOption {
	return func(c *Catalog) { c.logger = l }
}

// NewCatalog creates a catalog view over st.
func NewCatalog(st store.Store, opts ...CatalogOption) *Catalog {
	c := &Catalog{store: st}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListDocuments groups all stored records by source and reports the
// first-seen title, author, and chunk count per group, sorted by source.
// An empty store yields an empty list.
func (c *Catalog) ListDocuments(ctx context.Context) ([]*models.DocumentSummary, error) {
	metas, err := c.store.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan store: %w", err)
	}
	seen := make(map[string]*models.DocumentSummary)
	var summaries []*models.DocumentSummary
	for _, m := range metas {
		if _, ok := seen[m.Source]; ok {
			continue
		}
		s := &models.DocumentSummary{
			Source:     m.Source,
			Title:      m.Title,
			Author:     m.Author,
			ChunkCount: m.TotalChunks,
		}
		seen[m.Source] = s
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Source < summaries[j].Source })
	return summaries, nil
}

// Remove deletes all records for source. Returns ErrNotFound if the source
// had no records, otherwise the count removed.
func (c *Catalog) Remove(ctx context.Context, source string) (*models.RemovalResult, error) {
	if c.locks != nil {
		lock := c.locks.get(source)
		lock.Lock()
		defer lock.Unlock()
	}
	removed, err := c.store.DeleteBySource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", source, err)
	}
	if removed == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNotFound)
	}
	if c.logger != nil {
		c.logger.Info("document removed", zap.String("source", source), zap.Int("removed", removed))
	}
	return &models.RemovalResult{Source: source, Removed: removed}, nil
}
