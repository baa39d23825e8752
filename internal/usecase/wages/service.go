// Package wages generates a mock wages and employment table for the
// prepared occupations.
package wages

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/dataset"
	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
)

// Salary model: base + zone*perZone + uniform[varianceMin, varianceMax).
const (
	baseSalary    = 30000
	salaryPerZone = 15000
	varianceMin   = -5000
	varianceMax   = 20000
	growthMin     = -2
	growthMax     = 15
	unknownZone   = 3
)

// Service generates the wages file.
type Service struct {
	datasetPath string
	outputPath  string
	rng         *rand.Rand
	logger      *zap.Logger
}

// New creates a generator. rng may be nil for a randomly seeded source.
func New(datasetPath, outputPath string, rng *rand.Rand, logger *zap.Logger) *Service {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Service{datasetPath: datasetPath, outputPath: outputPath, rng: rng, logger: logger}
}

// Generate writes one wage row per dataset record and returns the count.
func (s *Service) Generate(ctx context.Context) (int, error) {
	records, err := dataset.ReadGold(s.datasetPath)
	if err != nil {
		return 0, fmt.Errorf("load dataset: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	rows := make([]dataset.Wage, len(records))
	for i, r := range records {
		rows[i] = s.wageFor(r)
	}
	if err := dataset.WriteWages(s.outputPath, rows); err != nil {
		return 0, fmt.Errorf("write wages: %w", err)
	}

	s.logger.Info("Wages generated", zap.String("output", s.outputPath), zap.Int("rows", len(rows)))
	return len(rows), nil
}

func (s *Service) wageFor(r occupation.Record) dataset.Wage {
	zone := r.JobZone
	if !occupation.ValidJobZone(zone) {
		zone = unknownZone
	}
	return dataset.Wage{
		Code:          r.Code,
		MedianAnnual:  baseSalary + zone*salaryPerZone + varianceMin + s.rng.IntN(varianceMax-varianceMin),
		PercentChange: growthMin + s.rng.IntN(growthMax-growthMin),
	}
}
