package careerdex

import (
	"github.com/kailas-cloud/careerdex/internal/domain/profile"
	"github.com/kailas-cloud/careerdex/internal/domain/recommendation"
	indexeruc "github.com/kailas-cloud/careerdex/internal/usecase/indexer"
	recommenduc "github.com/kailas-cloud/careerdex/internal/usecase/recommend"
)

// Profile describes the user asking for recommendations.
// EducationLevelID is the highest O*NET job zone (1..5) the user qualifies for.
type Profile struct {
	Interests        string
	Skills           string
	Age              int
	EducationLevelID int
}

// Recommendation is one matched occupation.
type Recommendation struct {
	ID                   string
	Title                string
	MatchScore           float64 // 0..100
	EducationRequirement string
	Description          string
	JobZone              int
}

// Response is the result of Recommend.
type Response struct {
	UserSummary     string
	Recommendations []Recommendation
}

// IndexOptions select the files Index reads and writes.
type IndexOptions struct {
	DatasetPath    string
	EmbeddingsPath string
	BatchSize      int // default 100
}

// IndexReport summarizes an Index run.
type IndexReport struct {
	Backend       string
	Records       int
	Uploaded      int
	FailedBatches int
}

func (p Profile) toInternal() profile.Profile {
	return profile.Profile{
		Interests:        p.Interests,
		Skills:           p.Skills,
		Age:              p.Age,
		EducationLevelID: p.EducationLevelID,
	}
}

func fromResults(in []recommendation.Result) []Recommendation {
	out := make([]Recommendation, len(in))
	for i, r := range in {
		out[i] = Recommendation{
			ID:                   r.ID,
			Title:                r.Title,
			MatchScore:           r.MatchScore,
			EducationRequirement: r.EducationRequirement,
			Description:          r.Description,
			JobZone:              r.JobZone,
		}
	}
	return out
}

func fromResponse(r recommenduc.Response) Response {
	return Response{
		UserSummary:     r.UserSummary,
		Recommendations: fromResults(r.Recommendations),
	}
}

func fromIndexReport(r indexeruc.Report) IndexReport {
	return IndexReport{
		Backend:       r.Backend,
		Records:       r.Records,
		Uploaded:      r.Uploaded,
		FailedBatches: r.FailedBatches,
	}
}
