package qdrant

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/careerdex/internal/db"
)

// RecreateCollection deletes the collection if present, creates it and
// builds an integer payload index per numeric field.
func (s *Store) RecreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}

	exists, err := s.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: def.Name})
	if err != nil {
		return &db.Error{Op: db.OpDrop, Err: err}
	}
	if exists.GetResult().GetExists() {
		if _, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: def.Name}); err != nil {
			return &db.Error{Op: db.OpDrop, Err: err}
		}
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: def.Name,
		VectorsConfig: pb.NewVectorsConfig(&pb.VectorParams{
			Size:     uint64(def.Dimensions),
			Distance: distance(def.Distance),
		}),
	})
	if err != nil {
		return &db.Error{Op: db.OpCreate, Err: err}
	}

	for _, field := range def.NumericIndexes {
		_, err := s.points.CreateFieldIndex(ctx, &pb.CreateFieldIndexCollection{
			CollectionName: def.Name,
			Wait:           pb.PtrOf(true),
			FieldName:      field,
			FieldType:      pb.FieldType_FieldTypeInteger.Enum(),
		})
		if err != nil {
			return &db.Error{Op: db.OpCreateIndex, Err: fmt.Errorf("field %s: %w", field, err)}
		}
	}
	return nil
}

// Count returns the exact number of points in the collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	resp, err := s.points.Count(ctx, &pb.CountPoints{CollectionName: collection, Exact: pb.PtrOf(true)})
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return int(resp.GetResult().GetCount()), nil
}

func distance(d db.DistanceMetric) pb.Distance {
	switch d {
	case db.DistanceL2:
		return pb.Distance_Euclid
	case db.DistanceIP:
		return pb.Distance_Dot
	default:
		return pb.Distance_Cosine
	}
}
