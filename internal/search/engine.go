// Package search runs semantic queries against the chunk store.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/sciencestudio/libris/internal/embedding"
	"github.com/sciencestudio/libris/internal/models"
	"github.com/sciencestudio/libris/internal/store"
)

// Engine embeds a query and ranks stored chunks by cosine similarity.
type Engine struct {
	store    store.Store
	embedder embedding.Embedder
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(st store.Store, embedder embedding.Embedder) *Engine {
	return &Engine{store: st, embedder: embedder}
}

// Search runs a semantic query and returns the top chunks by relevance.
// An empty store yields an empty result set without touching the embedder.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	response := &models.SearchResponse{
		Results: []*models.SearchResult{},
		Query:   query.Query,
	}

	count, err := e.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	if count == 0 {
		response.QueryTime = time.Since(startTime).Milliseconds()
		return response, nil
	}

	queryEmbedding, err := e.embedder.Embed(ctx, query.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	k := query.Limit
	if count < k {
		k = count
	}
	hits, err := e.store.Query(ctx, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	for _, hit := range hits {
		response.Results = append(response.Results, &models.SearchResult{
			Content:   hit.Record.Content,
			Source:    hit.Record.Source,
			Title:     hit.Record.Title,
			Relevance: hit.Similarity,
		})
	}
	response.Total = len(response.Results)
	response.QueryTime = time.Since(startTime).Milliseconds()
	return response, nil
}
