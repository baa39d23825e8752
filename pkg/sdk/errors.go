package careerdex

import "github.com/kailas-cloud/careerdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNoSearchBackend        = domain.ErrNoSearchBackend
	ErrServiceUnavailable     = domain.ErrServiceUnavailable
	ErrInvalidProfile         = domain.ErrInvalidProfile
	ErrInvalidDataset         = domain.ErrInvalidDataset
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
