// Package integration exercises the full ingest/search/remove pipeline
// against real SQLite storage.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sciencestudio/libris/internal/embedding"
	"github.com/sciencestudio/libris/internal/index"
	"github.com/sciencestudio/libris/internal/models"
	"github.com/sciencestudio/libris/internal/search"
	"github.com/sciencestudio/libris/internal/store"
)

func TestIntegration_Search(t *testing.T) {
	dir := t.TempDir()

	st, err := store.NewSQLiteStore(filepath.Join(dir, "library.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	embedder := embedding.NewMockEmbedder(16)
	defer embedder.Close()

	chunker, err := index.NewChunker(64, 8)
	if err != nil {
		t.Fatal(err)
	}
	manager := index.NewManager(st, embedder, chunker)
	engine := search.NewEngine(st, embedder)
	ctx := context.Background()

	if _, err := manager.Ingest(ctx, "/library/ml.txt",
		"Machine learning algorithms learn statistical patterns from data.",
		models.DocumentMeta{Title: "ML Notes"}); err != nil {
		t.Fatal(err)
	}
	if _, err := manager.Ingest(ctx, "/library/search.txt",
		"Semantic search uses embeddings to find similar content.",
		models.DocumentMeta{Title: "Search Notes"}); err != nil {
		t.Fatal(err)
	}

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "machine learning", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total < 1 {
		t.Errorf("expected at least 1 result, got %d", resp.Total)
	}
	for _, r := range resp.Results {
		if r.Relevance < -1.0001 || r.Relevance > 1.0001 {
			t.Errorf("relevance out of range: %f", r.Relevance)
		}
	}
}

func TestIntegration_Persistence(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "library.db")
	ctx := context.Background()

	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	embedder := embedding.NewMockEmbedder(16)
	defer embedder.Close()
	chunker, err := index.NewChunker(64, 8)
	if err != nil {
		t.Fatal(err)
	}
	manager := index.NewManager(st, embedder, chunker)

	result, err := manager.Ingest(ctx, "/library/persist.txt",
		"Durable content survives a store reopen.",
		models.DocumentMeta{Title: "Persist", Author: "Tester"})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen and verify catalog and search still see the document.
	st2, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st2.Close()

	catalog := index.NewCatalog(st2)
	summaries, err := catalog.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 {
		t.Fatalf("documents after reopen = %d, want 1", len(summaries))
	}
	if summaries[0].ChunkCount != result.ChunksIndexed {
		t.Errorf("chunk count = %d, want %d", summaries[0].ChunkCount, result.ChunksIndexed)
	}
	if summaries[0].Author != "Tester" {
		t.Errorf("author = %q, want Tester", summaries[0].Author)
	}

	engine := search.NewEngine(st2, embedder)
	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "durable content", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total < 1 {
		t.Errorf("expected results after reopen, got %d", resp.Total)
	}

	removal, err := catalog.Remove(ctx, "/library/persist.txt")
	if err != nil {
		t.Fatal(err)
	}
	if removal.Removed != result.ChunksIndexed {
		t.Errorf("removed = %d, want %d", removal.Removed, result.ChunksIndexed)
	}
}

func TestIntegration_ReplaceDocument(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewSQLiteStore(filepath.Join(dir, "library.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	embedder := embedding.NewMockEmbedder(16)
	defer embedder.Close()
	chunker, err := index.NewChunker(32, 4)
	if err != nil {
		t.Fatal(err)
	}
	manager := index.NewManager(st, embedder, chunker)
	ctx := context.Background()

	long := "First generation of this document, long enough to span several chunks when split by the chunker."
	if _, err := manager.Ingest(ctx, "/library/doc.txt", long, models.DocumentMeta{}); err != nil {
		t.Fatal(err)
	}
	short, err := manager.Ingest(ctx, "/library/doc.txt", "Second, shorter.", models.DocumentMeta{})
	if err != nil {
		t.Fatal(err)
	}

	count, err := st.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != short.ChunksIndexed {
		t.Errorf("store has %d records, want %d (old generation must be gone)", count, short.ChunksIndexed)
	}
}
