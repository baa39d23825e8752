package valkey

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/careerdex/internal/db"
)

// RecreateCollection drops the FT index and every point hash of the
// collection, then creates the index with the vector field and one NUMERIC
// field per numeric index.
func (s *Store) RecreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}

	if err := s.dropIndex(ctx, s.indexName(def.Name)); err != nil {
		return err
	}
	if err := s.deletePoints(ctx, def.Name); err != nil {
		return err
	}

	args := buildCreateArgs(s.indexName(def.Name), s.keyPrefix(def.Name), def)
	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpCreate, Err: err}
	}
	return nil
}

// Count returns the number of point hashes in the collection, or
// db.ErrCollectionNotFound when its FT index does not exist. Valkey-search
// does not support bare FT.SEARCH without KNN, so this scans keys.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	info := s.b().Arbitrary("FT.INFO").Args(s.indexName(collection)).Build()
	if err := s.do(ctx, info).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "not found") {
			return 0, &db.Error{Op: db.OpCount, Err: db.ErrCollectionNotFound}
		}
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}

	keys, err := s.scan(ctx, s.keyPrefix(collection)+"*")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, k := range keys {
		if _, ok := pointID(k); ok {
			n++
		}
	}
	return n, nil
}

func (s *Store) dropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "not found") {
			return nil
		}
		return &db.Error{Op: db.OpDrop, Err: err}
	}
	return nil
}

func (s *Store) deletePoints(ctx context.Context, collection string) error {
	keys, err := s.scan(ctx, s.keyPrefix(collection)+"*")
	if err != nil {
		return err
	}
	for start := 0; start < len(keys); start += scanCount {
		end := min(start+scanCount, len(keys))
		cmd := s.b().Del().Key(keys[start:end]...).Build()
		if err := s.do(ctx, cmd).Error(); err != nil {
			return &db.Error{Op: db.OpDrop, Err: err}
		}
	}
	return nil
}

const scanCount = 100

func (s *Store) scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(scanCount).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpCount, Err: err}
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

func buildCreateArgs(index, prefix string, def *db.CollectionDefinition) []string {
	args := []string{index, "ON", "HASH", "PREFIX", "1", prefix, "SCHEMA"}
	for _, f := range def.NumericIndexes {
		args = append(args, f, "NUMERIC")
	}
	args = append(args,
		db.FieldVector, "VECTOR", "HNSW", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(def.Dimensions),
		"DISTANCE_METRIC", string(def.Distance),
	)
	return args
}
