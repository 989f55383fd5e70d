package health

import "context"

// StorePinger checks vector store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// Checker checks an auxiliary backend (embedder, reranker).
type Checker interface {
	HealthCheck(ctx context.Context) error
}
