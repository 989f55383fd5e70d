// Package chat answers a shopper's question: guardrail, intent, retrieval,
// intent filtering with backfill, then a templated reply.
package chat

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/intent"
	"github.com/techstore/catalogqa/internal/domain/query"
	"github.com/techstore/catalogqa/internal/domain/textnorm"
	"github.com/techstore/catalogqa/internal/logger"
	"github.com/techstore/catalogqa/internal/metrics"
	"github.com/techstore/catalogqa/internal/usecase/answer"
	"github.com/techstore/catalogqa/internal/usecase/filter"
	"github.com/techstore/catalogqa/internal/usecase/guardrail"
	intentuc "github.com/techstore/catalogqa/internal/usecase/intent"
)

// Pool sizing defaults: chat retrieves max(top_k*PoolMultiplier, MinPool).
const (
	DefaultPoolMultiplier = 4
	DefaultMinPool        = 20
)

// Config tunes the chat pipeline.
type Config struct {
	PoolMultiplier int
	MinPool        int
	// CollapseChunks keeps only the best chunk of each product.
	CollapseChunks bool
}

// Result is a composed reply with the candidates it was built from.
type Result struct {
	Answer      string
	Intent      intent.Intent
	OutOfDomain bool
	// Label is the out-of-domain category when OutOfDomain is set.
	Label   string
	Context []candidate.Candidate
}

// Service handles chat business logic.
type Service struct {
	search     searcher
	guard      *guardrail.Service
	classifier *intentuc.Classifier
	selector   *filter.Selector
	composer   *answer.Composer
	cfg        Config
}

// New creates a chat service.
func New(
	search searcher,
	guard *guardrail.Service,
	classifier *intentuc.Classifier,
	selector *filter.Selector,
	composer *answer.Composer,
	cfg Config,
) *Service {
	if cfg.PoolMultiplier <= 0 {
		cfg.PoolMultiplier = DefaultPoolMultiplier
	}
	if cfg.MinPool <= 0 {
		cfg.MinPool = DefaultMinPool
	}
	return &Service{
		search: search, guard: guard, classifier: classifier,
		selector: selector, composer: composer, cfg: cfg,
	}
}

// Chat answers q. Out-of-domain and no-result outcomes are replies, not errors.
func (s *Service) Chat(ctx context.Context, q query.Query) (Result, error) {
	text := textnorm.NewText(q.Text())
	log := logger.FromContext(ctx)

	if v := s.guard.CheckText(text); v.Blocked {
		metrics.GuardrailBlocksTotal.WithLabelValues(v.Label).Inc()
		log.Info("query out of domain", zap.String("label", v.Label), zap.String("keyword", v.Keyword))
		return Result{
			Answer:      answer.OutOfDomain(v.Label),
			Intent:      intent.General,
			OutOfDomain: true,
			Label:       v.Label,
			Context:     []candidate.Candidate{},
		}, nil
	}

	in := s.classifier.ClassifyText(text)
	metrics.IntentTotal.WithLabelValues(string(in)).Inc()
	ctx = logger.With(ctx, zap.String("intent", string(in)))

	pq, err := query.NewPool(q.Text(), s.poolSize(q.TopK()))
	if err != nil {
		return Result{}, fmt.Errorf("build retrieval pool: %w", err)
	}
	pool, err := s.search.Search(ctx, pq)
	if err != nil {
		return Result{}, fmt.Errorf("retrieve candidates: %w", err)
	}
	if s.cfg.CollapseChunks {
		pool = collapseProducts(pool)
	}

	selected := s.selector.Filter(pool, in)
	metrics.FilteredCandidates.WithLabelValues(string(in)).Observe(float64(len(selected)))

	if len(selected) < q.TopK() {
		var added int
		selected, added = s.selector.Backfill(selected, pool, in, q.TopK())
		if added > 0 {
			metrics.BackfillAddedTotal.WithLabelValues(string(in)).Add(float64(added))
		}
	}
	if len(selected) > q.TopK() {
		selected = selected[:q.TopK()]
	}

	logger.FromContext(ctx).Debug("chat candidates selected",
		zap.Int("pool", len(pool)),
		zap.Int("selected", len(selected)),
	)

	return Result{
		Answer:  s.composer.Compose(q.Text(), in, selected),
		Intent:  in,
		Context: selected,
	}, nil
}

func (s *Service) poolSize(topK int) int {
	return max(topK*s.cfg.PoolMultiplier, s.cfg.MinPool)
}

// collapseProducts keeps the first chunk of every product, in order.
// Chunks without a product id are kept as is.
func collapseProducts(cs []candidate.Candidate) []candidate.Candidate {
	seen := make(map[string]struct{}, len(cs))
	out := make([]candidate.Candidate, 0, len(cs))
	for _, c := range cs {
		key := c.ID()
		if pid, ok := c.ProductID(); ok {
			key = "product:" + strconv.FormatInt(pid, 10)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
