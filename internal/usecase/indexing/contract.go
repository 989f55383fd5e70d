package indexing

import (
	"context"

	"github.com/techstore/catalogqa/internal/domain/product"
	"github.com/techstore/catalogqa/internal/repository/catalog"
)

// catalogWriter stores embedded chunks.
type catalogWriter interface {
	EnsureIndex(ctx context.Context, opts catalog.IndexOptions) (bool, error)
	Recreate(ctx context.Context, opts catalog.IndexOptions) error
	Upsert(ctx context.Context, chunks []product.Chunk, vectors [][]float32) error
}
