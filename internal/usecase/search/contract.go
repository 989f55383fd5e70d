package search

import (
	"context"

	"github.com/techstore/catalogqa/internal/domain/candidate"
)

// vectorStore is the consumer interface for nearest-neighbour lookups.
// Results come back ordered by similarity, highest first.
type vectorStore interface {
	Query(ctx context.Context, vector []float32, k int) ([]candidate.Candidate, error)
}

// reranker reorders candidates; it must never fail the request.
type reranker interface {
	Enabled() bool
	Rerank(ctx context.Context, query string, cs []candidate.Candidate) []candidate.Candidate
}
