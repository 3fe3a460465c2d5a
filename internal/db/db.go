// Package db defines the document store contract consumed by repositories.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on narrow sub-interfaces (ISP).
type Store interface {
	Pinger
	VectorSearcher
	JSONReader
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// VectorSearcher provides vector and declarative search over FT indexes.
type VectorSearcher interface {
	// VectorSearch runs the structured KNN form with inline field projection.
	VectorSearch(ctx context.Context, q *VectorQuery) (*SearchResult, error)
	// VectorSearchLegacy runs the primitive KNN form: same index, field,
	// vector and limit, but no field projection. Hits carry id and distance
	// only.
	VectorSearchLegacy(ctx context.Context, index, field string, vector []float32, limit int) (*SearchResult, error)
	// QueryByField runs a declarative exact-match query against an indexed
	// tag field.
	QueryByField(ctx context.Context, q *FieldQuery) (*SearchResult, error)
}

// JSONReader provides JSON document retrieval by key.
type JSONReader interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
