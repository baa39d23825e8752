// Package fallback serves filtered search from the cleaned dataset and its
// precomputed embeddings held in memory, for when no vector store is
// reachable.
package fallback

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/kailas-cloud/careerdex/internal/dataset"
	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
)

// Name is the backend label used in logs and metrics.
const Name = "fallback"

// Index is an immutable brute-force cosine index.
type Index struct {
	records []occupation.Record
	vectors [][]float32
	norms   []float64
}

// Load reads the dataset and embeddings files once.
func Load(datasetPath, embeddingsPath string) (*Index, error) {
	records, err := dataset.ReadGold(datasetPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	vectors, err := dataset.ReadEmbeddings(embeddingsPath)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	return New(records, vectors)
}

// New builds an index over row-aligned records and vectors.
func New(records []occupation.Record, vectors [][]float32) (*Index, error) {
	if len(records) != len(vectors) {
		return nil, fmt.Errorf("%w: %d records but %d embeddings",
			domain.ErrInvalidDataset, len(records), len(vectors))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", domain.ErrInvalidDataset)
	}
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = norm(v)
	}
	return &Index{records: records, vectors: vectors, norms: norms}, nil
}

// Name returns the backend label.
func (x *Index) Name() string { return Name }

// Ping always succeeds once the index is loaded.
func (x *Index) Ping(context.Context) error { return nil }

// Len returns the number of indexed rows.
func (x *Index) Len() int { return len(x.records) }

// FilteredSearch scores every row with zone <= maxZone and returns the topK
// by descending similarity. Ties keep row order. A row whose zone is
// missing or malformed counts as zone 5. A numeric zone above 5 never
// matches.
func (x *Index) FilteredSearch(
	_ context.Context, vector []float32, maxZone, topK int,
) ([]recommendation.Result, error) {
	if len(vector) != len(x.vectors[0]) {
		return nil, fmt.Errorf("%w: query has %d dims, index has %d",
			domain.ErrVectorDimMismatch, len(vector), len(x.vectors[0]))
	}
	if topK <= 0 {
		return nil, nil
	}

	qn := norm(vector)
	type hit struct {
		row int
		sim float64
	}
	hits := make([]hit, 0, len(x.records))
	for i, r := range x.records {
		if zoneOf(r) > maxZone {
			continue
		}
		hits = append(hits, hit{row: i, sim: cosine(vector, x.vectors[i], qn, x.norms[i])})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].sim > hits[b].sim })
	if len(hits) > topK {
		hits = hits[:topK]
	}

	out := make([]recommendation.Result, len(hits))
	for i, h := range hits {
		out[i] = toResult(h.row, x.records[h.row], h.sim)
	}
	return out, nil
}

func zoneOf(r occupation.Record) int {
	if r.JobZone == occupation.UnknownJobZone {
		return occupation.MaxJobZone
	}
	return r.JobZone
}

func toResult(row int, r occupation.Record, sim float64) recommendation.Result {
	id := r.Code
	if id == "" {
		id = strconv.Itoa(row)
	}
	title := r.Title
	if title == "" {
		title = "Unknown"
	}
	return recommendation.Result{
		ID:                   id,
		Title:                title,
		MatchScore:           recommendation.MatchScore(sim),
		EducationRequirement: r.EducationLevel,
		Description:          r.Description,
		JobZone:              zoneOf(r),
	}
}

func norm(v []float32) float64 {
	var s float64
	for _, f := range v {
		s += float64(f) * float64(f)
	}
	return math.Sqrt(s)
}

func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}
