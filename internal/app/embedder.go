package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/config"
	"github.com/techstore/catalogqa/internal/db"
	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/metrics"
	"github.com/techstore/catalogqa/internal/repository/embcache"
	openaiEmb "github.com/techstore/catalogqa/internal/transport/openai"
	embeddinguc "github.com/techstore/catalogqa/internal/usecase/embedding"
)

// Embedders is the resolved embedding stack.
type Embedders struct {
	Selection embeddinguc.Selection
	// Query embeds user queries: backend, cache, instrumentation, query instruction.
	Query domain.Embedder
	// Document embeds catalog chunks with the document instruction.
	Document domain.Embedder
}

// HealthCheck probes the selected backend.
func (e *Embedders) HealthCheck(ctx context.Context) error {
	if _, err := e.Selection.Backend.Probe(ctx); err != nil {
		return fmt.Errorf("embedding probe: %w", err)
	}
	return nil
}

// BuildEmbedders probes the configured backends once, keeps the first usable
// one and wraps it. kv may be nil, which disables caching.
func BuildEmbedders(
	ctx context.Context, cfg config.EmbeddingConfig, kv db.KVStore, logger *zap.Logger,
) (*Embedders, error) {
	var local, remote embeddinguc.Backend
	if cfg.LocalEnabled() {
		local = newBackend("local", cfg.Local, logger)
	}
	if cfg.RemoteEnabled() {
		remote = newBackend("remote", cfg.Remote, logger)
	}

	sel, err := embeddinguc.Select(ctx, local, remote, logger)
	if err != nil {
		return nil, fmt.Errorf("select embedding backend: %w", err)
	}

	var base domain.Embedder = sel.Backend
	if kv != nil && !cfg.Cache.Disabled {
		base = embcache.New(sel.Backend, kv, embcache.Config{
			Model:     sel.Backend.Provider() + "/" + sel.Backend.Model(),
			KeyPrefix: cfg.Cache.KeyPrefix,
			TTL:       time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}
	base = embeddinguc.NewInstrumentedEmbedder(
		base, sel.Backend.Provider(), sel.Backend.Model(), cfg.MaxBatchSize, logger,
	)

	return &Embedders{
		Selection: sel,
		Query:     withInstruction(base, cfg.QueryInstruction),
		Document:  withInstruction(base, cfg.DocumentInstruction),
	}, nil
}

func newBackend(provider string, b config.BackendConfig, logger *zap.Logger) *openaiEmb.Embedder {
	return openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     b.APIKey,
		BaseURL:    b.BaseURL,
		Model:      b.Model,
		Dimensions: b.Dimensions,
		Provider:   provider,
		RateLimit:  b.RateLimit,
		Burst:      b.Burst,
		Timeout:    b.Timeout(),
		Logger:     logger,
	})
}

// withInstruction is the outermost decorator, so cache keys include the instruction.
func withInstruction(e domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return e
	}
	return domain.NewInstructionEmbedder(e, instruction)
}
