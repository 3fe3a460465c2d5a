// Package query builds immutable similarity search requests.
package query

import "fmt"

// DefaultPoolFloor is the minimum candidate pool handed to the ANN index.
// The pool is overcommitted relative to the result limit so that rows dropped
// during resolution still leave enough survivors.
const DefaultPoolFloor = 100

// SimilarityQuery is an immutable vector search request.
type SimilarityQuery struct {
	index         string
	vectorField   string
	vector        []float32
	candidatePool int
	limit         int
	projection    []string
}

// Index returns the search index name.
func (q *SimilarityQuery) Index() string { return q.index }

// VectorField returns the indexed vector field name.
func (q *SimilarityQuery) VectorField() string { return q.vectorField }

// Vector returns the query embedding.
func (q *SimilarityQuery) Vector() []float32 { return q.vector }

// CandidatePool returns the ANN candidate pool size. Always >= Limit.
func (q *SimilarityQuery) CandidatePool() int { return q.candidatePool }

// Limit returns the requested result count.
func (q *SimilarityQuery) Limit() int { return q.limit }

// Projection returns the requested field projection, in order.
func (q *SimilarityQuery) Projection() []string { return q.projection }

// Builder constructs similarity queries with a fixed candidate pool policy.
type Builder struct {
	poolFloor int
}

// NewBuilder creates a builder. poolFloor <= 0 selects DefaultPoolFloor.
func NewBuilder(poolFloor int) Builder {
	if poolFloor <= 0 {
		poolFloor = DefaultPoolFloor
	}
	return Builder{poolFloor: poolFloor}
}

// Build assembles a similarity query. The candidate pool is
// max(poolFloor, topK), so the pool can never be smaller than the limit.
func (b Builder) Build(
	vector []float32, index, vectorField string, topK int, projection []string,
) (SimilarityQuery, error) {
	if topK <= 0 {
		return SimilarityQuery{}, fmt.Errorf("topK must be positive, got %d", topK)
	}
	if index == "" {
		return SimilarityQuery{}, fmt.Errorf("index name is required")
	}
	if vectorField == "" {
		return SimilarityQuery{}, fmt.Errorf("vector field is required")
	}
	if len(vector) == 0 {
		return SimilarityQuery{}, fmt.Errorf("vector is required")
	}

	pool := b.poolFloor
	if topK > pool {
		pool = topK
	}

	return SimilarityQuery{
		index:         index,
		vectorField:   vectorField,
		vector:        vector,
		candidatePool: pool,
		limit:         topK,
		projection:    projection,
	}, nil
}
