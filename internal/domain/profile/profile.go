// Package profile holds the per-request user profile.
package profile

import (
	"fmt"

	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
)

// Profile is what a user tells us about themselves in one request.
type Profile struct {
	Interests        string
	Skills           string
	Age              int
	EducationLevelID int
}

// Validate checks that the education selector is a job zone and the age is
// not negative.
func (p Profile) Validate() error {
	if !occupation.ValidJobZone(p.EducationLevelID) {
		return fmt.Errorf("%w: education_level_id must be between %d and %d, got %d",
			domain.ErrInvalidProfile, occupation.MinJobZone, occupation.MaxJobZone, p.EducationLevelID)
	}
	if p.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", domain.ErrInvalidProfile)
	}
	return nil
}

// SearchQuery is the free text embedded for the similarity search.
func (p Profile) SearchQuery() string {
	return fmt.Sprintf("%s. My skills are: %s.", p.Interests, p.Skills)
}
