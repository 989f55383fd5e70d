package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/config"
	"github.com/techstore/catalogqa/internal/db"
	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/rules"
	"github.com/techstore/catalogqa/internal/metrics"
	"github.com/techstore/catalogqa/internal/repository/catalog"
	transportRerank "github.com/techstore/catalogqa/internal/transport/rerank"
	"github.com/techstore/catalogqa/internal/usecase/answer"
	chatuc "github.com/techstore/catalogqa/internal/usecase/chat"
	"github.com/techstore/catalogqa/internal/usecase/filter"
	"github.com/techstore/catalogqa/internal/usecase/guardrail"
	healthuc "github.com/techstore/catalogqa/internal/usecase/health"
	intentuc "github.com/techstore/catalogqa/internal/usecase/intent"
	rerankuc "github.com/techstore/catalogqa/internal/usecase/rerank"
	searchuc "github.com/techstore/catalogqa/internal/usecase/search"
)

// RegisterMetrics registers every collector with the default registry.
func RegisterMetrics() {
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()
	metrics.RegisterHTTPMetrics()
}

// Pipeline holds the query services.
type Pipeline struct {
	Search *searchuc.Service
	Chat   *chatuc.Service
}

// PipelineDeps are the resolved collaborators of the query services.
type PipelineDeps struct {
	Rules      *rules.Tables
	Embedder   domain.Embedder
	Store      db.Searcher
	Catalog    catalog.Config
	Reranker   *rerankuc.Service
	RerankPool int
	Chat       chatuc.Config
}

// NewPipeline wires search and chat. A nil Reranker disables reranking.
func NewPipeline(d PipelineDeps) *Pipeline {
	repo := catalog.New(d.Store, d.Catalog)
	search := searchuc.New(d.Embedder, repo, d.Reranker, d.RerankPool)
	chat := chatuc.New(
		search,
		guardrail.New(d.Rules.OutOfDomain),
		intentuc.New(d.Rules.Intents),
		filter.New(d.Rules.Filter),
		answer.New(d.Rules.VerboseCues),
		d.Chat,
	)
	return &Pipeline{Search: search, Chat: chat}
}

// NewReranker builds the configured reranker and, when the backend supports
// it, a health checker. An empty backend yields a disabled service.
func NewReranker(cfg config.RerankConfig) (*rerankuc.Service, healthuc.Checker) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	switch cfg.Backend {
	case config.RerankTEI:
		tei := transportRerank.NewTEI(transportRerank.TEIConfig{
			BaseURL: cfg.BaseURL, Truncate: true, Timeout: timeout,
		})
		return rerankuc.New(tei, config.RerankTEI), tei
	case config.RerankCohere:
		c := transportRerank.NewCohere(transportRerank.CohereConfig{
			BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, Model: cfg.Model, Timeout: timeout,
		})
		return rerankuc.New(c, config.RerankCohere), nil
	default:
		return rerankuc.New(nil, ""), nil
	}
}

// NewHealth builds the health service. rerank may be nil.
func NewHealth(stores *Stores, emb *Embedders, rerank healthuc.Checker, logger *zap.Logger) *healthuc.Service {
	return healthuc.New(stores.Vector, emb, rerank, logger)
}

// CatalogConfig maps store settings to the catalog repository.
func CatalogConfig(cfg config.VectorStoreConfig) catalog.Config {
	c := catalog.Config{Driver: cfg.Driver, IndexName: cfg.IndexName, KeyPrefix: cfg.KeyPrefix}
	if cfg.Driver == config.DriverMilvus {
		c.IndexName = cfg.Milvus.Collection
		c.VectorField = cfg.Milvus.VectorField
	}
	return c
}
