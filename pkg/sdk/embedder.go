package catalogqa

import "context"

// Embedder converts query text to a vector. Text arrives normalized:
// lowercased with whitespace collapsed.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Reranker scores each text against the query; higher is more relevant.
// It must return one score per text, in input order. Errors are not fatal:
// search keeps the similarity order.
type Reranker interface {
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
}

// HealthChecker may be implemented by an Embedder or a Reranker to take part
// in Client.Health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
