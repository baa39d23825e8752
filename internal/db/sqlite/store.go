// Package sqlite implements db.Store as an on-disk sqlite-vec database.
// Each collection is one vec0 virtual table; numeric index fields become
// vec0 metadata columns so range filters apply inside the KNN scan.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kailas-cloud/careerdex/internal/db"
)

var _ db.Store = (*Store)(nil)

// Store is the local vector store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	sqlite_vec.Auto()

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// one connection keeps ":memory:" databases consistent across calls
	conn.SetMaxOpenConns(1)
	return &Store{db: conn}, nil
}

// Driver names the backend.
func (s *Store) Driver() string { return "sqlite" }

// Ping checks the database and the vec extension.
func (s *Store) Ping(ctx context.Context) error {
	var version string
	if err := s.db.QueryRowContext(ctx, "SELECT vec_version()").Scan(&version); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() { _ = s.db.Close() }

func quote(name string) string { return `"` + name + `"` }
