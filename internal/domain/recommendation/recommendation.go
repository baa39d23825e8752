// Package recommendation holds ranked search results.
package recommendation

import (
	"math"
	"sort"
)

// Result is one ranked occupation returned to the user.
type Result struct {
	ID                   string
	Title                string
	MatchScore           float64
	EducationRequirement string
	Description          string
	JobZone              int
}

// MatchScore rescales a similarity in [0,1] to a 0..100 display score
// rounded to two decimals.
func MatchScore(similarity float64) float64 {
	return math.Round(similarity*100*100) / 100
}

// SortByScore orders results by non-increasing score. Equal scores keep
// their input order.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
}

// Titles returns the result titles in rank order.
func Titles(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Title
	}
	return out
}
