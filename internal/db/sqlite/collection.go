package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/careerdex/internal/db"
)

// RecreateCollection drops and recreates the vec0 table for def.
func (s *Store) RecreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	ddl, err := buildCreateTable(def)
	if err != nil {
		return &db.Error{Op: db.OpCreate, Err: err}
	}

	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(def.Name)); err != nil {
		return &db.Error{Op: db.OpDrop, Err: err}
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return &db.Error{Op: db.OpCreate, Err: err}
	}
	return nil
}

// Count returns the number of rows in the collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	if !db.IsValidIdentifier(collection) {
		return 0, &db.Error{Op: db.OpCount, Err: db.ErrCollectionNotFound}
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM "+quote(collection)).Scan(&n); err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return 0, &db.Error{Op: db.OpCount, Err: db.ErrCollectionNotFound}
		}
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

func buildCreateTable(def *db.CollectionDefinition) (string, error) {
	metric, err := distanceMetric(def.Distance)
	if err != nil {
		return "", err
	}

	numeric := make(map[string]bool, len(def.NumericIndexes))
	for _, f := range def.NumericIndexes {
		if f != db.FieldJobZone {
			return "", fmt.Errorf("numeric index %q is not a payload field", f)
		}
		numeric[f] = true
	}

	zoneCol := "+" + db.FieldJobZone + " integer"
	if numeric[db.FieldJobZone] {
		zoneCol = db.FieldJobZone + " integer"
	}

	cols := []string{
		"id integer primary key",
		fmt.Sprintf("%s float[%d] distance_metric=%s", db.FieldVector, def.Dimensions, metric),
		zoneCol,
		"+" + db.FieldCode + " text",
		"+" + db.FieldTitle + " text",
		"+" + db.FieldEducation + " text",
		"+" + db.FieldDescription + " text",
	}
	return fmt.Sprintf("CREATE VIRTUAL TABLE %s USING vec0(%s)", quote(def.Name), strings.Join(cols, ", ")), nil
}

func distanceMetric(d db.DistanceMetric) (string, error) {
	switch d {
	case db.DistanceCosine:
		return "cosine", nil
	case db.DistanceL2:
		return "l2", nil
	default:
		return "", fmt.Errorf("distance %s is not supported by sqlite-vec", d)
	}
}
