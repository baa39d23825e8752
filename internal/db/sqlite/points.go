package sqlite

import (
	"context"
	"fmt"
	"math"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/kailas-cloud/careerdex/internal/db"
	"github.com/kailas-cloud/careerdex/internal/domain/search/filter"
)

// Upsert writes points in one transaction, replacing existing ids.
func (s *Store) Upsert(ctx context.Context, collection string, points []db.Point) error {
	if len(points) == 0 {
		return nil
	}
	if !db.IsValidIdentifier(collection) {
		return &db.Error{Op: db.OpUpsert, Err: db.ErrCollectionNotFound}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	table := quote(collection)
	del, err := tx.PrepareContext(ctx, "DELETE FROM "+table+" WHERE id = ?")
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	defer func() { _ = del.Close() }()

	ins, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s(id, %s, %s, %s, %s, %s, %s) VALUES(?, ?, ?, ?, ?, ?, ?)",
		table, db.FieldVector, db.FieldJobZone, db.FieldCode, db.FieldTitle, db.FieldEducation, db.FieldDescription,
	))
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	defer func() { _ = ins.Close() }()

	for _, p := range points {
		blob, err := sqlite_vec.SerializeFloat32(p.Vector)
		if err != nil {
			return &db.Error{Op: db.OpUpsert, Err: err}
		}
		if _, err := del.ExecContext(ctx, int64(p.ID)); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: err}
		}
		pl := p.Payload
		if _, err := ins.ExecContext(ctx,
			int64(p.ID), blob, pl.JobZone, pl.Code, pl.Title, pl.Education, pl.Description,
		); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("point %d: %w", p.ID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}

// SearchKNN runs a vec0 KNN query with metadata constraints.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if !db.IsValidIdentifier(q.Collection) {
		return nil, fmt.Errorf("collection is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	blob, err := sqlite_vec.SerializeFloat32(q.Vector)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	where, args, err := buildWhere(q.Filters)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	query := fmt.Sprintf(
		"SELECT id, distance, %s, %s, %s, %s, %s FROM %s WHERE %s MATCH ? AND k = ?%s ORDER BY distance",
		db.FieldJobZone, db.FieldCode, db.FieldTitle, db.FieldEducation, db.FieldDescription,
		quote(q.Collection), db.FieldVector, where,
	)
	rows, err := s.db.QueryContext(ctx, query, append([]any{blob, q.K}, args...)...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer func() { _ = rows.Close() }()

	entries := make([]db.SearchEntry, 0, q.K)
	for rows.Next() {
		var (
			id       int64
			distance float64
			pl       db.Payload
		)
		if err := rows.Scan(&id, &distance, &pl.JobZone, &pl.Code, &pl.Title, &pl.Education, &pl.Description); err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}
		entries = append(entries, db.SearchEntry{ID: uint64(id), Score: 1 - distance, Payload: pl})
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return &db.SearchResult{Entries: entries}, nil
}

// buildWhere renders the filter as " AND col op ?" clauses.
func buildWhere(expr filter.Expression) (string, []any, error) {
	var (
		sb   strings.Builder
		args []any
	)
	for _, c := range expr.Must() {
		if c.Key() != db.FieldJobZone {
			return "", nil, fmt.Errorf("field %q is not filterable", c.Key())
		}
		r := c.Range()
		// job_zone is an integer column; vec0 rejects real-valued operands
		bounds := []struct {
			op    string
			v     *float64
			round func(float64) float64
		}{
			{">", r.GT(), math.Floor},
			{">=", r.GTE(), math.Ceil},
			{"<", r.LT(), math.Ceil},
			{"<=", r.LTE(), math.Floor},
		}
		for _, b := range bounds {
			if b.v == nil {
				continue
			}
			fmt.Fprintf(&sb, " AND %s %s ?", c.Key(), b.op)
			args = append(args, int64(b.round(*b.v)))
		}
	}
	return sb.String(), args, nil
}
