package search

import (
	"context"

	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
)

// Backend runs a filtered nearest-neighbour search over indexed occupations.
type Backend interface {
	FilteredSearch(ctx context.Context, vector []float32, maxZone, topK int) ([]recommendation.Result, error)
	// Name labels the backend in logs and metrics.
	Name() string
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
