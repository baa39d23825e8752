// Package search adapts a vector store to the filtered search backend used
// by the search usecase.
package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/careerdex/internal/db"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
	"github.com/kailas-cloud/careerdex/internal/domain/search/filter"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	Driver() string
}

// Repo implements usecase/search.Backend on a db.Store.
type Repo struct {
	store      store
	collection string
}

// New creates a store-backed search repository.
func New(s store, collection string) *Repo {
	return &Repo{store: s, collection: collection}
}

// Name returns the store driver.
func (r *Repo) Name() string { return r.store.Driver() }

// FilteredSearch returns the topK nearest occupations with
// job_zone <= maxZone.
func (r *Repo) FilteredSearch(
	ctx context.Context, vector []float32, maxZone, topK int,
) ([]recommendation.Result, error) {
	q := &db.KNNQuery{
		Collection: r.collection,
		Filters:    filter.AtMost(db.FieldJobZone, float64(maxZone)),
		Vector:     vector,
		K:          topK,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", r.collection, err)
	}
	return toResults(sr), nil
}

func toResults(sr *db.SearchResult) []recommendation.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}
	out := make([]recommendation.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		id := e.Payload.Code
		if id == "" {
			id = strconv.FormatUint(e.ID, 10)
		}
		title := e.Payload.Title
		if title == "" {
			title = "Unknown"
		}
		out = append(out, recommendation.Result{
			ID:                   id,
			Title:                title,
			MatchScore:           recommendation.MatchScore(e.Score),
			EducationRequirement: e.Payload.Education,
			Description:          e.Payload.Description,
			JobZone:              e.Payload.JobZone,
		})
	}
	recommendation.SortByScore(out)
	return out
}
