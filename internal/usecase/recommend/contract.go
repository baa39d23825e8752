package recommend

import (
	"context"

	"github.com/kailas-cloud/careerdex/internal/domain/profile"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
)

// Searcher retrieves education-filtered matches for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxEducationLevel, topK int) ([]recommendation.Result, error)
}

// Advisor narrates the matches.
type Advisor interface {
	GenerateAdvice(ctx context.Context, p profile.Profile, results []recommendation.Result) string
}
