package models

// SearchResult is a single ranked hit: one chunk with its provenance and
// relevance. Relevance is 1 - cosine distance, so 1.0 is a perfect match.
type SearchResult struct {
	Content   string  `json:"content"`
	Source    string  `json:"source"`
	Title     string  `json:"title"`
	Relevance float64 `json:"relevance_score"`
}

// SearchResponse is the response for a search request. Results are ordered
// by non-increasing relevance; a document may contribute multiple chunks.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
}

// IngestResult reports a successful document ingestion.
type IngestResult struct {
	Source        string `json:"source"`
	Title         string `json:"title"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

// DocumentSummary is one catalog entry: a source key with its first-seen
// metadata and chunk count.
type DocumentSummary struct {
	Source     string `json:"source"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	ChunkCount int    `json:"chunk_count"`
}

// RemovalResult reports how many chunk records a remove operation deleted.
type RemovalResult struct {
	Source  string `json:"source"`
	Removed int    `json:"removed"`
}
