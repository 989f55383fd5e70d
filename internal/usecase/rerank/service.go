// Package rerank reorders retrieved candidates with a cross-encoder and keeps
// the similarity order whenever the scorer cannot be used.
package rerank

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/domain"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/logger"
	"github.com/techstore/catalogqa/internal/metrics"
)

// Service wraps an optional Scorer. A nil scorer disables reranking.
type Service struct {
	scorer Scorer
	name   string
}

// New creates a rerank service. name identifies the backend in logs.
func New(scorer Scorer, name string) *Service {
	return &Service{scorer: scorer, name: name}
}

// Enabled reports whether a scorer is configured.
func (s *Service) Enabled() bool { return s != nil && s.scorer != nil }

// Rerank returns candidates sorted by rerank score, descending. The sort is
// stable. Candidates with empty text get no score and follow every scored one
// in their original order. Any scorer failure returns cs unchanged.
func (s *Service) Rerank(ctx context.Context, query string, cs []candidate.Candidate) []candidate.Candidate {
	if !s.Enabled() || len(cs) == 0 {
		return cs
	}

	idx := make([]int, 0, len(cs))
	texts := make([]string, 0, len(cs))
	for i, c := range cs {
		if c.Document() == "" {
			continue
		}
		idx = append(idx, i)
		texts = append(texts, c.Document())
	}
	if len(texts) == 0 {
		return cs
	}

	start := time.Now()
	scores, err := s.scorer.Score(ctx, query, texts)
	metrics.RerankDuration.Observe(time.Since(start).Seconds())
	if err == nil && len(scores) != len(texts) {
		err = fmt.Errorf("%w: got %d scores for %d texts", domain.ErrRerankerUnavailable, len(scores), len(texts))
	}
	if err != nil {
		metrics.RerankFallbackTotal.Inc()
		logger.FromContext(ctx).Warn("rerank failed, keeping similarity order",
			zap.String("backend", s.name),
			zap.Int("candidates", len(cs)),
			zap.Error(err),
		)
		return cs
	}

	scored := make([]candidate.Candidate, 0, len(idx))
	hasText := make([]bool, len(cs))
	for j, i := range idx {
		scored = append(scored, cs[i].WithRerankScore(scores[j]))
		hasText[i] = true
	}
	sort.SliceStable(scored, func(a, b int) bool {
		sa, _ := scored[a].RerankScore()
		sb, _ := scored[b].RerankScore()
		return sa > sb
	})

	out := make([]candidate.Candidate, 0, len(cs))
	out = append(out, scored...)
	for i, c := range cs {
		if !hasText[i] {
			out = append(out, c)
		}
	}
	return out
}
