// Package prepare cleans raw O*NET files into the gold dataset.
package prepare

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/dataset"
	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
)

// Sources names the input files and the output path.
type Sources struct {
	Occupations string
	Skills      string
	JobZones    string
	Output      string
}

// Report summarizes one preparation run.
type Report struct {
	Records    int
	WithSkills int
	WithZone   int
	Output     string
}

// Service runs the preparation pipeline.
type Service struct {
	logger *zap.Logger
}

// New creates a preparation service.
func New(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Prepare reads all three sources, joins them on the occupation code and
// writes the gold CSV. Any missing source aborts before anything is written.
func (s *Service) Prepare(ctx context.Context, src Sources) (Report, error) {
	occs, err := dataset.ReadOccupations(src.Occupations)
	if err != nil {
		return Report{}, fmt.Errorf("occupations: %w", err)
	}
	zones, err := dataset.ReadJobZones(src.JobZones)
	if err != nil {
		return Report{}, fmt.Errorf("job zones: %w", err)
	}
	skills, err := dataset.ReadSkills(src.Skills)
	if err != nil {
		return Report{}, fmt.Errorf("skills: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	s.logger.Info("Merging datasets",
		zap.Int("occupations", len(occs)),
		zap.Int("skill_groups", len(skills)),
		zap.Int("job_zones", len(zones)),
	)

	records, rep := Merge(occs, skills, zones)
	if err := dataset.WriteGold(src.Output, records); err != nil {
		return Report{}, fmt.Errorf("write dataset: %w", err)
	}
	rep.Output = src.Output

	s.logger.Info("Dataset prepared",
		zap.String("output", src.Output),
		zap.Int("records", rep.Records),
		zap.Int("with_skills", rep.WithSkills),
		zap.Int("with_zone", rep.WithZone),
	)
	return rep, nil
}

// Merge left-joins occupations with skills and zones, keeping occupation
// order. Missing skills and zones take the occupation defaults.
func Merge(occs []dataset.Occupation, skills map[string]string, zones map[string]int) ([]occupation.Record, Report) {
	records := make([]occupation.Record, 0, len(occs))
	var rep Report
	for _, o := range occs {
		sk, hasSkills := skills[o.Code]
		z, hasZone := zones[o.Code]
		if hasSkills {
			rep.WithSkills++
		}
		if hasZone && occupation.ValidJobZone(z) {
			rep.WithZone++
		}
		records = append(records, occupation.New(o.Code, o.Title, o.Description, sk, z))
	}
	rep.Records = len(records)
	return records, rep
}
