package index

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ChunkID returns the stable record identifier for a (source key, chunk
// index) pair: 128 bits of the SHA-256 of the full source key, hex encoded,
// joined with the decimal chunk index. The same pair always yields the same
// ID, so re-indexing a source with unchanged boundaries reproduces its
// identifiers and the store sees an update rather than an unbounded append.
// Hashing the full key at 128 bits keeps accidental collisions negligible
// at personal-library scale.
func ChunkID(source string, index int) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:16]) + "_" + strconv.Itoa(index)
}
