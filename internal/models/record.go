// Package models defines core data structures for chunk records, queries, and search results.
package models

// ChunkRecord is the atomic unit of storage: one chunk of one document,
// with its embedding and provenance metadata. All records sharing a Source
// carry the same TotalChunks, and their ChunkIndex values form the
// contiguous range [0, TotalChunks).
type ChunkRecord struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Embedding   []float32 `json:"-"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ChunkIndex  int       `json:"chunk_index"`
	TotalChunks int       `json:"total_chunks"`
}

// ChunkMeta is the metadata-only view of a ChunkRecord, used for catalog
// scans where content and embedding are not needed.
type ChunkMeta struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
}

// DocumentMeta holds caller-supplied document metadata for ingestion.
// Empty fields fall back to defaults (title from the source key, author
// "Unknown") when the document is indexed.
type DocumentMeta struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}
