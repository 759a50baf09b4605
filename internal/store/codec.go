package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sciencestudio/libris/internal/models"
)

// Embeddings are persisted as little-endian float32 blobs.

func encodeVector(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func decodeVector(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}

// checkBatchDimension validates every vector in the batch against dim,
// adopting the first vector's length when dim is zero. It returns the
// dimension the batch settles on; the caller adopts it into the store only
// once the batch has actually been stored.
func checkBatchDimension(records []*models.ChunkRecord, dim int) (int, error) {
	for _, rec := range records {
		if len(rec.Embedding) == 0 {
			return 0, fmt.Errorf("insert %s: empty embedding", rec.ID)
		}
		if dim == 0 {
			dim = len(rec.Embedding)
		} else if len(rec.Embedding) != dim {
			return 0, fmt.Errorf("insert %s: vector dimension mismatch: got %d, expected %d",
				rec.ID, len(rec.Embedding), dim)
		}
	}
	return dim, nil
}

// dotProduct returns the inner product of two equal-length vectors.
// For unit-normalized vectors this equals cosine similarity.
func dotProduct(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i] * b[i])
	}
	return dot
}
