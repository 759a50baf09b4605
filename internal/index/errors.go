package index

import "errors"

// Sentinel errors for ordinary input problems. These are reported to the
// caller, never fatal; provider and store failures pass through unchanged
// so callers can apply their own retry policy.
var (
	// ErrEmptySource indicates an empty source key.
	ErrEmptySource = errors.New("source key cannot be empty")

	// ErrEmptyContent indicates the document text is empty after trimming.
	ErrEmptyContent = errors.New("document has no text content")

	// ErrNoChunks indicates chunking produced no indexable chunks.
	ErrNoChunks = errors.New("no chunks produced from document text")

	// ErrNotFound indicates the source has no records in the index.
	ErrNotFound = errors.New("source not found in index")

	// ErrInvalidChunking indicates malformed chunk size or overlap parameters.
	ErrInvalidChunking = errors.New("invalid chunking parameters")
)
