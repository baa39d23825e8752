package db

import "errors"

// Sentinel errors for store operations.
var (
	ErrKeyNotFound        = errors.New("db: key not found")
	ErrCollectionNotFound = errors.New("db: collection not found")
	ErrDimensionMismatch  = errors.New("db: vector dimension mismatch")
)

// Op names used for error context.
const (
	OpPing        = "PING"
	OpCreate      = "CREATE"
	OpDrop        = "DROP"
	OpCreateIndex = "CREATE_INDEX"
	OpUpsert      = "UPSERT"
	OpSearch      = "SEARCH"
	OpCount       = "COUNT"
	OpGet         = "GET"
	OpSet         = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
