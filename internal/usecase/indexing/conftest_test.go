package indexing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/product"
	"github.com/techstore/catalogqa/internal/repository/catalog"
)

// --- Mocks ---

// mockEmbedder returns [len(text), 1, 0] for each text. A text containing
// badDim gets a shorter vector.
type mockEmbedder struct {
	mu     sync.Mutex
	calls  int
	err    error
	badDim string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := m.BatchEmbed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: res.Embeddings[0]}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if m.badDim != "" && strings.Contains(t, m.badDim) {
			out[i] = []float32{1}
			continue
		}
		out[i] = []float32{float32(len(t)), 1, 0}
	}
	return domain.BatchEmbeddingResult{Embeddings: out}, nil
}

type mockWriter struct {
	mu        sync.Mutex
	created   bool
	recreated bool
	opts      catalog.IndexOptions
	ids       []string
	upserts   int
	upsertErr error
}

func (m *mockWriter) EnsureIndex(_ context.Context, opts catalog.IndexOptions) (bool, error) {
	m.opts = opts
	m.created = true
	return true, nil
}

func (m *mockWriter) Recreate(_ context.Context, opts catalog.IndexOptions) error {
	m.opts = opts
	m.recreated = true
	return nil
}

func (m *mockWriter) Upsert(_ context.Context, chunks []product.Chunk, vectors [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("length mismatch")
	}
	m.upserts++
	for _, c := range chunks {
		m.ids = append(m.ids, c.ID)
	}
	return nil
}

func products(n int) []product.Product {
	out := make([]product.Product, n)
	for i := range out {
		out[i] = product.Product{
			ProductID:    int64(i + 1),
			Name:         fmt.Sprintf("Sản phẩm %d", i+1),
			Brand:        "TechStore",
			CategoryName: "Laptop",
			Description:  "Mô tả ngắn",
		}
	}
	return out
}
