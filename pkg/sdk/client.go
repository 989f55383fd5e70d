package catalogqa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/app"
	"github.com/techstore/catalogqa/internal/config"
	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/query"
	chatuc "github.com/techstore/catalogqa/internal/usecase/chat"
	healthuc "github.com/techstore/catalogqa/internal/usecase/health"
	rerankuc "github.com/techstore/catalogqa/internal/usecase/rerank"
)

const defaultReadinessTimeoutSec = 10

var errUnhealthy = errors.New("catalogqa: unhealthy")

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error)
}

type chatUseCase interface {
	Chat(ctx context.Context, q query.Query) (chatuc.Result, error)
}

type storeHandle interface {
	Ping(ctx context.Context) error
	Close()
}

// Client is the catalogqa SDK entry point. It is safe for concurrent use.
type Client struct {
	store     storeHandle
	searchSvc searchUseCase
	chatSvc   chatUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New connects to the configured vector store and wires the query pipeline.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("catalogqa: vector store required (use WithRedis, WithValkey or WithMilvus)")
	}
	if cfg.embedder == nil {
		return nil, errors.New("catalogqa: embedder required (use WithEmbedder)")
	}

	tables, err := config.LoadRules(cfg.rulesPath)
	if err != nil {
		return nil, fmt.Errorf("catalogqa: %w", err)
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	storeCfg := storeConfig(cfg)
	stores, err := app.OpenStores(ctx, storeCfg, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("catalogqa: %w", err)
	}

	var rr *rerankuc.Service
	if cfg.reranker != nil {
		rr = rerankuc.New(cfg.reranker, "sdk")
	}
	pipeline := app.NewPipeline(app.PipelineDeps{
		Rules:      tables,
		Embedder:   &embedderAdapter{inner: cfg.embedder},
		Store:      stores.Vector,
		Catalog:    app.CatalogConfig(storeCfg),
		Reranker:   rr,
		RerankPool: cfg.rerankPool,
		Chat:       chatuc.Config{CollapseChunks: cfg.collapseChunks},
	})

	return &Client{
		store:     stores.Vector,
		searchSvc: pipeline.Search,
		chatSvc:   pipeline.Chat,
		healthSvc: healthuc.New(stores.Vector, checkerOf(cfg.embedder), checkerOf(cfg.reranker), zap.NewNop()),
		obs:       obs,
	}, nil
}

func storeConfig(cfg *clientConfig) config.VectorStoreConfig {
	return config.VectorStoreConfig{
		Driver:           cfg.driver,
		Addrs:            cfg.addrs,
		Password:         cfg.password,
		ReadinessTimeout: defaultReadinessTimeoutSec,
		IndexName:        cfg.indexName,
		KeyPrefix:        cfg.keyPrefix,
		Milvus: config.MilvusConfig{
			Address:    cfg.milvusAddr,
			Collection: cfg.milvusCollection,
		},
	}
}

// checkerOf returns v as a health checker when it implements one.
func checkerOf(v any) healthuc.Checker {
	if hc, ok := v.(HealthChecker); ok {
		return hc
	}
	return nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks vector store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns up to topK catalog chunks closest to text, best first.
// topK of zero selects the default of 5; the maximum is 20.
func (c *Client) Search(ctx context.Context, text string, topK int) (_ []Hit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	q, err := query.NewSearch(text, topK)
	if err != nil {
		return nil, err
	}
	cs, err := c.searchSvc.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	c.obs.observeResults("search", len(cs))
	return toHits(cs), nil
}

// Chat answers a shopper's question. topK of zero selects the default of 3;
// the maximum is 10. Out-of-domain questions get a refusal, not an error.
func (c *Client) Chat(ctx context.Context, text string, topK int) (_ Answer, err error) {
	start := time.Now()
	var in string
	defer func() { c.obs.observe("chat", start, err, slog.String("intent", in)) }()

	q, err := query.NewChat(text, topK)
	if err != nil {
		return Answer{}, err
	}
	res, err := c.chatSvc.Chat(ctx, q)
	if err != nil {
		return Answer{}, fmt.Errorf("chat: %w", err)
	}
	in = string(res.Intent)
	c.obs.observeResults("chat", len(res.Context))
	return Answer{
		Text:        res.Answer,
		Intent:      string(res.Intent),
		OutOfDomain: res.OutOfDomain,
		Label:       res.Label,
		Context:     toHits(res.Context),
	}, nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingProviderError) {
			return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
		}
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w: %w", domain.ErrEmbeddingProviderError, err)
	}
	if len(r.Embedding) == 0 {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w: empty vector", domain.ErrEmbeddingProviderError)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
