// Package health aggregates backend checks for GET /health.
package health

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing; queries still work.
	Degraded Status = "degraded"
	// Unhealthy indicates queries cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as keys in Report.Checks.
const (
	ComponentVectorStore = "vector_store"
	ComponentEmbedding   = "embedding"
	ComponentReranker    = "reranker"
)

// DefaultCheckTimeout bounds each individual check.
const DefaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	embedding Checker
	reranker  Checker
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Service. embedding and reranker can be nil.
func New(store StorePinger, embedding, reranker Checker, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		embedding: embedding,
		reranker:  reranker,
		timeout:   DefaultCheckTimeout,
		logger:    logger,
	}
}

// WithTimeout overrides the per-check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs every configured check. A failing store or embedder makes the
// service unhealthy; a failing reranker only degrades it, since search falls
// back to similarity order.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)
	status := Healthy

	checks[ComponentVectorStore] = s.run(ctx, ComponentVectorStore, s.store.Ping)
	if checks[ComponentVectorStore] == CheckError {
		status = Unhealthy
	}

	if s.embedding != nil {
		checks[ComponentEmbedding] = s.run(ctx, ComponentEmbedding, s.embedding.HealthCheck)
		if checks[ComponentEmbedding] == CheckError {
			status = Unhealthy
		}
	}

	if s.reranker != nil {
		checks[ComponentReranker] = s.run(ctx, ComponentReranker, s.reranker.HealthCheck)
		if checks[ComponentReranker] == CheckError && status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, name string, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		s.logger.Warn("Health check failed", zap.String("component", name), zap.Error(err))
		return CheckError
	}
	return CheckOK
}
