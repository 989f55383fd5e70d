package catalogqa

import "github.com/techstore/catalogqa/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrVectorStoreUnavailable = domain.ErrVectorStoreUnavailable
	ErrRerankerUnavailable    = domain.ErrRerankerUnavailable
	ErrRateLimited            = domain.ErrRateLimited
)
