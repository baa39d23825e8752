package db

import "github.com/kailas-cloud/careerdex/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	Collection string
	Filters    filter.Expression
	Vector     []float32
	K          int
}

// SearchResult is the output of a search operation, ordered by
// non-increasing score.
type SearchResult struct {
	Entries []SearchEntry
}

// SearchEntry is a single hit. Score is a cosine similarity.
type SearchEntry struct {
	ID      uint64
	Score   float64
	Payload Payload
}
