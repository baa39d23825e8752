// Package indexer embeds the gold dataset and loads it into a vector store.
package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/careerdex/internal/dataset"
	"github.com/kailas-cloud/careerdex/internal/db"
	"github.com/kailas-cloud/careerdex/internal/domain"
	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
	"github.com/kailas-cloud/careerdex/internal/metrics"
)

// DefaultBatchSize is the number of points per upload.
const DefaultBatchSize = 100

// Store is the subset of db.Store the indexer writes through.
type Store interface {
	RecreateCollection(ctx context.Context, def *db.CollectionDefinition) error
	Upsert(ctx context.Context, collection string, points []db.Point) error
	Driver() string
}

// Options configure one indexing run.
type Options struct {
	Collection     string
	Dimensions     int
	BatchSize      int
	DatasetPath    string
	EmbeddingsPath string
}

// Report summarizes one indexing run.
type Report struct {
	Backend       string
	Records       int
	Uploaded      int
	FailedBatches int
}

// Service runs indexing.
type Service struct {
	store  Store
	embed  domain.Embedder
	opts   Options
	logger *zap.Logger
}

// New creates an indexer.
func New(store Store, embed domain.Embedder, opts Options, logger *zap.Logger) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Service{store: store, embed: embed, opts: opts, logger: logger}
}

// Run recreates the collection, embeds every record in one bulk call, saves
// the embeddings file and uploads points in batches. A failed batch is
// logged and counted; collection setup and embedding failures abort.
func (s *Service) Run(ctx context.Context) (Report, error) {
	rep := Report{Backend: s.store.Driver()}

	records, err := dataset.ReadGold(s.opts.DatasetPath)
	if err != nil {
		return rep, fmt.Errorf("load dataset: %w", err)
	}
	rep.Records = len(records)

	def, err := db.NewCollection(s.opts.Collection).
		Vector(s.opts.Dimensions, db.DistanceCosine).
		Numeric(db.FieldJobZone).
		Build()
	if err != nil {
		return rep, fmt.Errorf("collection definition: %w", err)
	}
	if err := s.store.RecreateCollection(ctx, def); err != nil {
		return rep, fmt.Errorf("recreate collection: %w", err)
	}
	s.logger.Info("Collection ready",
		zap.String("backend", rep.Backend),
		zap.String("collection", def.Name),
		zap.Int("dimensions", def.Dimensions),
	)

	vectors, err := s.embedAll(ctx, records)
	if err != nil {
		return rep, err
	}
	if err := dataset.WriteEmbeddings(s.opts.EmbeddingsPath, vectors); err != nil {
		return rep, fmt.Errorf("write embeddings: %w", err)
	}

	s.upload(ctx, records, vectors, &rep)

	s.logger.Info("Indexing complete",
		zap.String("backend", rep.Backend),
		zap.Int("records", rep.Records),
		zap.Int("uploaded", rep.Uploaded),
		zap.Int("failed_batches", rep.FailedBatches),
	)
	return rep, nil
}

func (s *Service) embedAll(ctx context.Context, records []occupation.Record) ([][]float32, error) {
	if len(records) == 0 {
		return nil, nil
	}
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.SearchText
	}

	s.logger.Info("Vectorizing records", zap.Int("records", len(texts)))
	res, err := domain.EmbedAll(ctx, s.embed, texts)
	if err != nil {
		return nil, fmt.Errorf("embed dataset: %w", err)
	}
	for i, v := range res.Embeddings {
		if len(v) != s.opts.Dimensions {
			return nil, fmt.Errorf("%w: record %d has %d dims, collection expects %d",
				domain.ErrVectorDimMismatch, i, len(v), s.opts.Dimensions)
		}
	}
	return res.Embeddings, nil
}

func (s *Service) upload(ctx context.Context, records []occupation.Record, vectors [][]float32, rep *Report) {
	for start := 0; start < len(records); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(records))

		points := make([]db.Point, 0, end-start)
		for i := start; i < end; i++ {
			r := records[i]
			if !occupation.ValidJobZone(r.JobZone) {
				r.JobZone = occupation.DefaultJobZone
			}
			points = append(points, db.NewPoint(uint64(i), vectors[i], r))
		}

		if err := s.store.Upsert(ctx, s.opts.Collection, points); err != nil {
			rep.FailedBatches++
			metrics.IndexedPointsTotal.WithLabelValues(rep.Backend, "error").Add(float64(len(points)))
			s.logger.Error("Failed to upload batch",
				zap.Int("from", start),
				zap.Int("to", end),
				zap.Error(err),
			)
			continue
		}
		rep.Uploaded += len(points)
		metrics.IndexedPointsTotal.WithLabelValues(rep.Backend, "success").Add(float64(len(points)))
		s.logger.Debug("Uploaded batch", zap.Int("from", start), zap.Int("to", end))
	}
}
