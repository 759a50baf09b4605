package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sciencestudio/libris/internal/models"
)

// SQLiteStore implements Store using SQLite. Embeddings are held as blobs
// and similarity search is a brute-force scan, which is adequate for a
// personal library of tens of thousands of chunks.
type SQLiteStore struct {
	db *sql.DB

	mu  sync.Mutex
	dim int // vector dimension, 0 until the first record is seen
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: create database directory: %v", ErrUnavailable, err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrUnavailable, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: enable WAL: %v", ErrUnavailable, err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: initialize schema: %v", ErrUnavailable, err)
	}

	s := &SQLiteStore{db: db}
	if err := s.loadDimension(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS chunk_records (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		total_chunks INTEGER NOT NULL,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chunk_records_source ON chunk_records(source);
	`
	_, err := db.Exec(schema)
	return err
}

// loadDimension recovers the vector dimension from an existing record, if any.
func (s *SQLiteStore) loadDimension() error {
	var n sql.NullInt64
	err := s.db.QueryRow(`SELECT length(embedding) FROM chunk_records LIMIT 1`).Scan(&n)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read dimension: %v", ErrUnavailable, err)
	}
	if n.Valid {
		s.dim = int(n.Int64) / 4
	}
	return nil
}

// Insert stores all records in one transaction.
func (s *SQLiteStore) Insert(ctx context.Context, records []*models.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	dim := s.dim
	s.mu.Unlock()
	dim, err := checkBatchDimension(records, dim)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin insert: %v", ErrUnavailable, err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunk_records (id, source, title, author, chunk_index, total_chunks, content, embedding)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: prepare insert: %v", ErrUnavailable, err)
	}
	defer stmt.Close()
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Source, rec.Title, rec.Author, rec.ChunkIndex, rec.TotalChunks,
			rec.Content, encodeVector(rec.Embedding),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert record %s: %v", ErrUnavailable, rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit insert: %v", ErrUnavailable, err)
	}
	// Adopt the dimension only now; a rolled-back batch must not fix it.
	s.mu.Lock()
	if s.dim == 0 {
		s.dim = dim
	}
	s.mu.Unlock()
	return nil
}

// DeleteBySource removes all records for source. Zero matches is a no-op, not an error.
func (s *SQLiteStore) DeleteBySource(ctx context.Context, source string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chunk_records WHERE source = ?`, source)
	if err != nil {
		return 0, fmt.Errorf("%w: delete by source: %v", ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %v", ErrUnavailable, err)
	}
	return int(n), nil
}

// Query scans all records and returns the top-k by similarity, non-increasing.
// Ties keep rowid (insertion) order.
func (s *SQLiteStore) Query(ctx context.Context, vector []float32, k int) ([]*Hit, error) {
	s.mu.Lock()
	dim := s.dim
	s.mu.Unlock()
	if dim != 0 && len(vector) != dim {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(vector), dim)
	}
	if k <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, title, author, chunk_index, total_chunks, content, embedding
		 FROM chunk_records ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: query records: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var hits []*Hit
	for rows.Next() {
		var rec models.ChunkRecord
		var blob []byte
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Title, &rec.Author,
			&rec.ChunkIndex, &rec.TotalChunks, &rec.Content, &blob); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", ErrUnavailable, err)
		}
		rec.Embedding = decodeVector(blob)
		hits = append(hits, &Hit{Record: &rec, Similarity: dotProduct(vector, rec.Embedding)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %v", ErrUnavailable, err)
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunk_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count records: %v", ErrUnavailable, err)
	}
	return n, nil
}

// ScanAll returns metadata for every stored record in insertion order.
func (s *SQLiteStore) ScanAll(ctx context.Context) ([]*models.ChunkMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, title, author, chunk_index, total_chunks
		 FROM chunk_records ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: scan records: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var metas []*models.ChunkMeta
	for rows.Next() {
		var m models.ChunkMeta
		if err := rows.Scan(&m.ID, &m.Source, &m.Title, &m.Author, &m.ChunkIndex, &m.TotalChunks); err != nil {
			return nil, fmt.Errorf("%w: scan metadata: %v", ErrUnavailable, err)
		}
		metas = append(metas, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate metadata: %v", ErrUnavailable, err)
	}
	return metas, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
