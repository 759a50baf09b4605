package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/sciencestudio/libris/internal/embedding"
	"github.com/sciencestudio/libris/internal/index"
	"github.com/sciencestudio/libris/internal/models"
	"github.com/sciencestudio/libris/internal/store"
)

func BenchmarkMemoryStoreQuery(b *testing.B) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	const dim = 384
	records := make([]*models.ChunkRecord, 1000)
	for i := range records {
		emb := make([]float32, dim)
		emb[i%dim] = 1.0
		records[i] = &models.ChunkRecord{
			ID:          fmt.Sprintf("src_%d", i),
			Source:      fmt.Sprintf("/library/doc%d.txt", i/10),
			Content:     "benchmark chunk content",
			Embedding:   emb,
			TotalChunks: 10,
		}
	}
	if err := st.Insert(ctx, records); err != nil {
		b.Fatal(err)
	}

	query := make([]float32, dim)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := st.Query(ctx, query, 10); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMockEmbedder_Embed(b *testing.B) {
	e := embedding.NewMockEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "benchmark query text for embedding")
	}
}

func BenchmarkChunker(b *testing.B) {
	chunker, err := index.NewChunker(1000, 200)
	if err != nil {
		b.Fatal(err)
	}
	text := ""
	for i := 0; i < 200; i++ {
		text += "The quick brown fox jumps over the lazy dog. "
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = chunker.Chunk(text)
	}
}
