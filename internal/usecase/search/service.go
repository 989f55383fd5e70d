// Package search runs semantic retrieval: embed the query, fetch nearest
// catalog chunks, optionally rerank, truncate.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/query"
	"github.com/techstore/catalogqa/internal/domain/textnorm"
	"github.com/techstore/catalogqa/internal/logger"
)

// DefaultRerankPool is how many candidates are fetched for the reranker when
// top_k is smaller.
const DefaultRerankPool = 20

// Service handles search business logic.
type Service struct {
	embedder   domain.Embedder
	store      vectorStore
	reranker   reranker
	rerankPool int
}

// New creates a search service. reranker may be nil.
func New(embedder domain.Embedder, store vectorStore, rr reranker, rerankPool int) *Service {
	if rerankPool <= 0 {
		rerankPool = DefaultRerankPool
	}
	return &Service{embedder: embedder, store: store, reranker: rr, rerankPool: rerankPool}
}

// PoolSize is the number of candidates requested from the store for topK.
func (s *Service) PoolSize(topK int) int {
	if !s.rerankEnabled() {
		return topK
	}
	return min(max(topK, s.rerankPool), query.MaxPoolSize)
}

func (s *Service) rerankEnabled() bool {
	return s.reranker != nil && s.reranker.Enabled()
}

// Search returns up to q.TopK() candidates, best first.
func (s *Service) Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error) {
	text := textnorm.ForEmbedding(q.Text())

	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	k := s.PoolSize(q.TopK())
	cands, err := s.store.Query(ctx, emb.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}

	if s.rerankEnabled() {
		cands = s.reranker.Rerank(ctx, text, cands)
	}

	if len(cands) > q.TopK() {
		cands = cands[:q.TopK()]
	}

	logger.FromContext(ctx).Debug("search completed",
		zap.Int("pool", k),
		zap.Int("returned", len(cands)),
		zap.Int("prompt_tokens", emb.PromptTokens),
	)
	return cands, nil
}
