package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/techstore/catalogqa/internal/db"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/product"
)

// writeStore is the consumer interface for indexing (ISP).
type writeStore interface {
	db.IndexManager
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
}

// IndexOptions tune the HNSW vector field.
type IndexOptions struct {
	Dim         int
	M           int
	EFConstruct int
}

// Writer stores embedded chunks in a Redis or Valkey FT index.
type Writer struct {
	store writeStore
	cfg   Config
}

// NewWriter creates a catalog writer.
func NewWriter(store writeStore, cfg Config) *Writer {
	cfg.applyDefaults()
	return &Writer{store: store, cfg: cfg}
}

// IndexDefinition returns the catalog schema for the given options.
func (w *Writer) IndexDefinition(opts IndexOptions) (*db.IndexDefinition, error) {
	def, err := db.NewIndex(w.cfg.IndexName).
		Prefix(w.cfg.KeyPrefix).
		Numeric(candidate.KeyProductID).
		Numeric(candidate.KeyPrice).
		Numeric(candidate.KeyChunkIndex).
		Tag(candidate.KeyBrand).
		Tag(candidate.KeyCategoryName).
		Text(candidate.KeyName).
		VectorHNSW(FieldVector, opts.Dim, db.DistanceCosine, opts.M, opts.EFConstruct).
		Build()
	if err != nil {
		return nil, fmt.Errorf("catalog index definition: %w", err)
	}
	return def, nil
}

// EnsureIndex creates the index unless it already exists. It reports whether it created one.
func (w *Writer) EnsureIndex(ctx context.Context, opts IndexOptions) (bool, error) {
	exists, err := w.store.IndexExists(ctx, w.cfg.IndexName)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", w.cfg.IndexName, err)
	}
	if exists {
		return false, nil
	}

	def, err := w.IndexDefinition(opts)
	if err != nil {
		return false, err
	}
	if err := w.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", w.cfg.IndexName, err)
	}
	return true, nil
}

// Drop removes the index. Stored hashes are kept. A missing index is not an error.
func (w *Writer) Drop(ctx context.Context) error {
	if err := w.store.DropIndex(ctx, w.cfg.IndexName); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", w.cfg.IndexName, err)
	}
	return nil
}

// Recreate drops the index, keeping the hashes, and builds it again.
func (w *Writer) Recreate(ctx context.Context, opts IndexOptions) error {
	if err := w.Drop(ctx); err != nil {
		return err
	}
	if _, err := w.EnsureIndex(ctx, opts); err != nil {
		return err
	}
	return nil
}

// Upsert writes chunks with their vectors in one pipelined round-trip.
func (w *Writer) Upsert(ctx context.Context, chunks []product.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("upsert: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(chunks))
	for i, c := range chunks {
		items[i] = db.HashSetItem{
			Key:    w.cfg.KeyPrefix + c.ID,
			Fields: chunkToHash(c, vectors[i]),
		}
	}
	if err := w.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert %d chunks: %w", len(items), err)
	}
	return nil
}
