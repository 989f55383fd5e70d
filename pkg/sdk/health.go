package catalogqa

import (
	"context"
	"time"

	healthuc "github.com/techstore/catalogqa/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the vector store and, when they implement HealthChecker,
// the embedder and the reranker. A failing reranker only degrades the status.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	var err error
	if report.Status == healthuc.Unhealthy {
		err = errUnhealthy
	}
	c.obs.observe("health", start, err)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
