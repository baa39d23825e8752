// Package db defines the vector store facade shared by the qdrant, valkey
// and sqlite backends.
package db

import (
	"context"
	"time"
)

// Store is the main vector store facade combining all sub-interfaces.
type Store interface {
	Pinger
	CollectionManager
	PointWriter
	Searcher
	// Driver names the backend for logs and metric labels.
	Driver() string
	Close()
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CollectionManager provides collection lifecycle operations.
type CollectionManager interface {
	// RecreateCollection drops the collection if it exists, creates it and
	// builds its numeric payload indexes.
	RecreateCollection(ctx context.Context, def *CollectionDefinition) error
	Count(ctx context.Context, collection string) (int, error)
}

// PointWriter uploads points into a collection.
type PointWriter interface {
	Upsert(ctx context.Context, collection string, points []Point) error
}

// Searcher provides filtered top-K similarity search.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// WaitForReady pings p until it answers or timeout elapses.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = p.Ping(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return &Error{Op: OpPing, Err: lastErr}
		case <-ticker.C:
		}
	}
}
