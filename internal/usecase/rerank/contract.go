package rerank

import "context"

// Scorer scores (query, text) pairs. The result has one score per text, in
// input order; higher means more relevant.
type Scorer interface {
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
}
