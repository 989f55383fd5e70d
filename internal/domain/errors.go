package domain

import "errors"

var (
	// ErrInvalidQuery signals a request that failed validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmbeddingProviderError signals an embedding backend failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrNoEmbeddingBackend signals that neither a local nor a remote embedder is usable.
	ErrNoEmbeddingBackend = errors.New("no embedding backend available")
	// ErrVectorStoreUnavailable signals a vector store query failure.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
	// ErrRerankerUnavailable signals a reranker failure. Callers recover from it.
	ErrRerankerUnavailable = errors.New("reranker unavailable")
	// ErrRateLimited signals a provider-side rate limit.
	ErrRateLimited = errors.New("rate limited")
)
