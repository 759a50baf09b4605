package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sciencestudio/libris/internal/models"
)

func testRecord(id, source string, idx, total int, vec []float32) *models.ChunkRecord {
	return &models.ChunkRecord{
		ID:          id,
		Content:     "content of " + id,
		Embedding:   vec,
		Source:      source,
		Title:       "Title of " + source,
		Author:      "Author",
		ChunkIndex:  idx,
		TotalChunks: total,
	}
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_insertAndQuery(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	records := []*models.ChunkRecord{
		testRecord("a_0", "a.pdf", 0, 2, []float32{1, 0, 0}),
		testRecord("a_1", "a.pdf", 1, 2, []float32{0, 1, 0}),
		testRecord("b_0", "b.pdf", 0, 1, []float32{0, 0, 1}),
	}
	if err := s.Insert(ctx, records); err != nil {
		t.Fatal(err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}

	hits, err := s.Query(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Record.ID != "a_0" {
		t.Errorf("top hit = %s, want a_0", hits[0].Record.ID)
	}
	if hits[0].Similarity < hits[1].Similarity {
		t.Errorf("similarities not non-increasing: %f < %f", hits[0].Similarity, hits[1].Similarity)
	}
	if hits[0].Record.Content != "content of a_0" {
		t.Errorf("content = %q", hits[0].Record.Content)
	}
}

func TestSQLiteStore_deleteBySource(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, []*models.ChunkRecord{
		testRecord("a_0", "a.pdf", 0, 2, []float32{1, 0}),
		testRecord("a_1", "a.pdf", 1, 2, []float32{0, 1}),
		testRecord("b_0", "b.pdf", 0, 1, []float32{1, 1}),
	}); err != nil {
		t.Fatal(err)
	}

	removed, err := s.DeleteBySource(ctx, "a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	// Deleting a source with no records is a no-op, not an error.
	removed, err = s.DeleteBySource(ctx, "a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("second delete removed = %d, want 0", removed)
	}

	n, _ := s.Count(ctx)
	if n != 1 {
		t.Errorf("Count after delete = %d, want 1", n)
	}
}

func TestSQLiteStore_dimensionMismatch(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, []*models.ChunkRecord{
		testRecord("a_0", "a.pdf", 0, 1, []float32{1, 0, 0}),
	}); err != nil {
		t.Fatal(err)
	}
	err := s.Insert(ctx, []*models.ChunkRecord{
		testRecord("c_0", "c.pdf", 0, 1, []float32{1, 0}),
	})
	if err == nil {
		t.Error("expected dimension mismatch error on insert")
	}
	if _, err := s.Query(ctx, []float32{1, 0}, 1); err == nil {
		t.Error("expected dimension mismatch error on query")
	}
}

func TestSQLiteStore_rolledBackInsertDoesNotFixDimension(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	// Duplicate IDs violate the primary key, so the whole batch rolls back
	// after its 3-wide vectors passed validation.
	err := s.Insert(ctx, []*models.ChunkRecord{
		testRecord("dup_0", "a.pdf", 0, 2, []float32{1, 0, 0}),
		testRecord("dup_0", "a.pdf", 1, 2, []float32{0, 1, 0}),
	})
	if err == nil {
		t.Fatal("expected primary key violation")
	}
	n, _ := s.Count(ctx)
	if n != 0 {
		t.Fatalf("Count after rollback = %d, want 0", n)
	}

	// The store is still empty, so a different width must be accepted.
	if err := s.Insert(ctx, []*models.ChunkRecord{
		testRecord("b_0", "b.pdf", 0, 1, []float32{0, 1}),
	}); err != nil {
		t.Fatalf("insert after rollback: %v", err)
	}
	hits, err := s.Query(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Record.ID != "b_0" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestSQLiteStore_scanAll(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	metas, err := s.ScanAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 0 {
		t.Errorf("empty store ScanAll = %d entries", len(metas))
	}

	if err := s.Insert(ctx, []*models.ChunkRecord{
		testRecord("a_0", "a.pdf", 0, 1, []float32{1, 0}),
		testRecord("b_0", "b.pdf", 0, 1, []float32{0, 1}),
	}); err != nil {
		t.Fatal(err)
	}
	metas, err = s.ScanAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("ScanAll = %d entries, want 2", len(metas))
	}
	if metas[0].Source != "a.pdf" || metas[0].TotalChunks != 1 {
		t.Errorf("unexpected first meta: %+v", metas[0])
	}
}

func TestSQLiteStore_persistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, []*models.ChunkRecord{
		testRecord("a_0", "a.pdf", 0, 1, []float32{0.6, 0.8}),
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	hits, err := s2.Query(ctx, []float32{0.6, 0.8}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Record.ID != "a_0" {
		t.Fatalf("unexpected hits after reopen: %+v", hits)
	}
	// Dimension is recovered from disk: wrong-width vectors are still rejected.
	if err := s2.Insert(ctx, []*models.ChunkRecord{
		testRecord("c_0", "c.pdf", 0, 1, []float32{1, 0, 0}),
	}); err == nil {
		t.Error("expected dimension mismatch after reopen")
	}
}
