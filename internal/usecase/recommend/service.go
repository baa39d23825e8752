// Package recommend wires search and advice into the per-request pipeline.
package recommend

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/profile"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
)

// Response is the result of one recommendation request.
type Response struct {
	UserSummary     string
	Recommendations []recommendation.Result
}

// Service runs search then advice.
type Service struct {
	search  Searcher
	advisor Advisor
	topK    int
}

// New creates the recommender. Either dependency may be nil when it failed
// to start; Recommend then reports domain.ErrServiceUnavailable.
func New(search Searcher, advisor Advisor, topK int) *Service {
	return &Service{search: search, advisor: advisor, topK: topK}
}

// Recommend validates the profile, searches with its query and education
// level, and narrates the results.
func (s *Service) Recommend(ctx context.Context, p profile.Profile) (Response, error) {
	if s.search == nil || s.advisor == nil {
		return Response{}, domain.ErrServiceUnavailable
	}
	if err := p.Validate(); err != nil {
		return Response{}, err
	}

	results, err := s.search.Search(ctx, p.SearchQuery(), p.EducationLevelID, s.topK)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}

	return Response{
		UserSummary:     s.advisor.GenerateAdvice(ctx, p, results),
		Recommendations: results,
	}, nil
}
