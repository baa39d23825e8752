package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSearchBackend signals that neither the vector store nor the
	// local fallback is available.
	ErrNoSearchBackend = errors.New("no search backend available")
	// ErrServiceUnavailable signals a service that failed to initialize.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrSourceMissing signals a missing data preparation input.
	ErrSourceMissing = errors.New("source file missing")
	// ErrInvalidProfile signals a user profile that cannot be searched.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrInvalidDataset signals a malformed cleaned dataset or embeddings file.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrRateLimited signals a provider rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a language model provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)

// SourceMissingError wraps ErrSourceMissing with the offending path.
type SourceMissingError struct {
	Path string
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSourceMissing.Error(), e.Path)
}

func (e *SourceMissingError) Unwrap() error { return ErrSourceMissing }

// NewSourceMissing creates a source missing error for path.
func NewSourceMissing(path string) error {
	return &SourceMissingError{Path: path}
}
