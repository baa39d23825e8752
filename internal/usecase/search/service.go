// Package search embeds a free-text query and retrieves education-filtered
// occupation matches from the backend chosen at startup.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
	"github.com/kailas-cloud/careerdex/internal/metrics"
)

// DefaultTopK is used when the caller passes a non-positive topK.
const DefaultTopK = 5

// Service is the search engine.
type Service struct {
	backend Backend
	embed   Embedder
	logger  *zap.Logger
}

// New creates a search service. backend may be nil, in which case every
// search fails with domain.ErrNoSearchBackend.
func New(backend Backend, embed Embedder, logger *zap.Logger) *Service {
	return &Service{backend: backend, embed: embed, logger: logger}
}

// Backend returns the backend name, or "" when none is configured.
func (s *Service) Backend() string {
	if s.backend == nil {
		return ""
	}
	return s.backend.Name()
}

// Search returns at most topK occupations with job zone <= maxEducationLevel,
// ordered by non-increasing match score.
func (s *Service) Search(
	ctx context.Context, query string, maxEducationLevel, topK int,
) ([]recommendation.Result, error) {
	if s.backend == nil {
		return nil, domain.ErrNoSearchBackend
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	maxEducationLevel = max(occupation.MinJobZone, min(maxEducationLevel, occupation.MaxJobZone))

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	name := s.backend.Name()
	start := time.Now()
	results, err := s.backend.FilteredSearch(ctx, emb.Embedding, maxEducationLevel, topK)
	metrics.SearchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("%s search: %w", name, err)
	}
	metrics.SearchRequestsTotal.WithLabelValues(name, "success").Inc()

	if len(results) > topK {
		results = results[:topK]
	}
	metrics.SearchResultsReturned.Observe(float64(len(results)))

	s.logger.Debug("Search completed",
		zap.String("backend", name),
		zap.Int("max_zone", maxEducationLevel),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}
