package qdrant

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/careerdex/internal/db"
	"github.com/kailas-cloud/careerdex/internal/domain/search/filter"
)

// Upsert stores points and waits for the write to be applied.
func (s *Store) Upsert(ctx context.Context, collection string, points []db.Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*pb.PointStruct, len(points))
	for i, p := range points {
		structs[i] = &pb.PointStruct{
			Id:      pb.NewIDNum(p.ID),
			Vectors: pb.NewVectorsDense(p.Vector),
			Payload: payloadToValues(p.Payload),
		}
	}

	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: collection,
		Wait:           pb.PtrOf(true),
		Points:         structs,
	})
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("%d points: %w", len(points), err)}
	}
	return nil
}

// SearchKNN performs a filtered top-K similarity search.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.Collection,
		Vector:         q.Vector,
		Limit:          uint64(q.K),
		Filter:         buildFilter(q.Filters),
		WithPayload:    pb.NewWithPayload(true),
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(resp.GetResult()))
	for _, hit := range resp.GetResult() {
		entries = append(entries, db.SearchEntry{
			ID:      hit.GetId().GetNum(),
			Score:   float64(hit.GetScore()),
			Payload: payloadFromValues(hit.GetPayload()),
		})
	}
	return &db.SearchResult{Entries: entries}, nil
}

func buildFilter(expr filter.Expression) *pb.Filter {
	if expr.IsEmpty() {
		return nil
	}
	must := make([]*pb.Condition, 0, len(expr.Must()))
	for _, c := range expr.Must() {
		r := c.Range()
		must = append(must, pb.NewRange(c.Key(), &pb.Range{
			Gt:  r.GT(),
			Gte: r.GTE(),
			Lt:  r.LT(),
			Lte: r.LTE(),
		}))
	}
	return &pb.Filter{Must: must}
}

func payloadToValues(p db.Payload) map[string]*pb.Value {
	return map[string]*pb.Value{
		db.FieldTitle:       pb.NewValueString(p.Title),
		db.FieldCode:        pb.NewValueString(p.Code),
		db.FieldEducation:   pb.NewValueString(p.Education),
		db.FieldJobZone:     pb.NewValueInt(int64(p.JobZone)),
		db.FieldDescription: pb.NewValueString(p.Description),
	}
}

func payloadFromValues(m map[string]*pb.Value) db.Payload {
	zone := m[db.FieldJobZone]
	z := int(zone.GetIntegerValue())
	if _, ok := zone.GetKind().(*pb.Value_DoubleValue); ok {
		z = int(zone.GetDoubleValue())
	}
	return db.Payload{
		Title:       m[db.FieldTitle].GetStringValue(),
		Code:        m[db.FieldCode].GetStringValue(),
		Education:   m[db.FieldEducation].GetStringValue(),
		JobZone:     z,
		Description: m[db.FieldDescription].GetStringValue(),
	}
}
