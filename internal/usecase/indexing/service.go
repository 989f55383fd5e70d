// Package indexing loads exported product records into the catalog index:
// chunk, batch-embed, create the index on first use and upsert.
package indexing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/product"
	"github.com/techstore/catalogqa/internal/repository/catalog"
)

// ErrNothingToIndex is returned when the input yields no chunks.
var ErrNothingToIndex = errors.New("nothing to index")

// Defaults.
const (
	DefaultBatchSize = 64
	DefaultWorkers   = 4
)

// Config tunes chunking and batching.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
	Workers      int
	// M and EFConstruct tune the HNSW index when it is created.
	M           int
	EFConstruct int
}

func (c *Config) applyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = product.DefaultChunkSize
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = min(product.DefaultChunkOverlap, c.ChunkSize-1)
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
}

// RunOptions control a single load.
type RunOptions struct {
	// Recreate drops and rebuilds the index before writing.
	Recreate bool
	// OnBatch is called after each stored batch with its chunk count. It may
	// be called from several goroutines.
	OnBatch func(chunks int)
}

// Stats summarizes a load.
type Stats struct {
	Products     int
	Chunks       int
	Dim          int
	IndexCreated bool
	Duration     time.Duration
}

// Service runs catalog loads.
type Service struct {
	embedder domain.Embedder
	writer   catalogWriter
	cfg      Config
	logger   *zap.Logger
}

// New creates an indexing service.
func New(embedder domain.Embedder, writer catalogWriter, cfg Config, logger *zap.Logger) *Service {
	cfg.applyDefaults()
	return &Service{embedder: embedder, writer: writer, cfg: cfg, logger: logger}
}

// Chunk splits every product into chunks, in input order.
func (s *Service) Chunk(products []product.Product) []product.Chunk {
	var out []product.Chunk
	for i := range products {
		out = append(out, products[i].Chunks(s.cfg.ChunkSize, s.cfg.ChunkOverlap)...)
	}
	return out
}

// Run embeds and stores all products. The first batch fixes the vector
// dimension and the index is created (or recreated) before it is written.
func (s *Service) Run(ctx context.Context, products []product.Product, opts RunOptions) (Stats, error) {
	start := time.Now()
	chunks := s.Chunk(products)
	if len(chunks) == 0 {
		return Stats{}, ErrNothingToIndex
	}
	stats := Stats{Products: len(products), Chunks: len(chunks)}

	batches := split(chunks, s.cfg.BatchSize)

	first, dim, err := s.embed(ctx, batches[0])
	if err != nil {
		return stats, fmt.Errorf("embed batch 0: %w", err)
	}
	stats.Dim = dim

	idxOpts := catalog.IndexOptions{Dim: stats.Dim, M: s.cfg.M, EFConstruct: s.cfg.EFConstruct}
	if opts.Recreate {
		if err := s.writer.Recreate(ctx, idxOpts); err != nil {
			return stats, fmt.Errorf("recreate index: %w", err)
		}
		stats.IndexCreated = true
	} else {
		created, err := s.writer.EnsureIndex(ctx, idxOpts)
		if err != nil {
			return stats, fmt.Errorf("ensure index: %w", err)
		}
		stats.IndexCreated = created
	}
	s.logger.Info("Catalog index ready",
		zap.Int("dimensions", stats.Dim),
		zap.Bool("created", stats.IndexCreated),
	)

	if err := s.store(ctx, batches[0], first, opts.OnBatch); err != nil {
		return stats, fmt.Errorf("store batch 0: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, batch := range batches[1:] {
		g.Go(func() error {
			vecs, dim, err := s.embed(gctx, batch)
			if err != nil {
				return fmt.Errorf("embed batch %d: %w", i+1, err)
			}
			if dim != stats.Dim {
				return fmt.Errorf("batch %d: vectors have %d dimensions, index has %d: %w",
					i+1, dim, stats.Dim, domain.ErrEmbeddingProviderError)
			}
			if err := s.store(gctx, batch, vecs, opts.OnBatch); err != nil {
				return fmt.Errorf("store batch %d: %w", i+1, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	s.logger.Info("Catalog load completed",
		zap.Int("products", stats.Products),
		zap.Int("chunks", stats.Chunks),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// embed returns one vector per chunk and their common dimension.
func (s *Service) embed(ctx context.Context, chunks []product.Chunk) ([][]float32, int, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	res, err := domain.EmbedAll(ctx, s.embedder, texts)
	if err != nil {
		return nil, 0, err
	}
	dim, err := res.Dim()
	if err != nil {
		return nil, 0, err
	}
	return res.Embeddings, dim, nil
}

func (s *Service) store(ctx context.Context, chunks []product.Chunk, vecs [][]float32, onBatch func(int)) error {
	if err := s.writer.Upsert(ctx, chunks, vecs); err != nil {
		return err
	}
	if onBatch != nil {
		onBatch(len(chunks))
	}
	return nil
}

func split(chunks []product.Chunk, size int) [][]product.Chunk {
	out := make([][]product.Chunk, 0, (len(chunks)+size-1)/size)
	for start := 0; start < len(chunks); start += size {
		out = append(out, chunks[start:min(start+size, len(chunks))])
	}
	return out
}
