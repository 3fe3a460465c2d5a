package search

import (
	"context"
	"testing"

	"github.com/roamstay/reviewdex/internal/db"
	"github.com/roamstay/reviewdex/internal/domain/search/query"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	vectorSearchFn       func(ctx context.Context, q *db.VectorQuery) (*db.SearchResult, error)
	vectorSearchLegacyFn func(ctx context.Context, index, field string, vector []float32, limit int) (*db.SearchResult, error)
}

func (m *mockStore) VectorSearch(ctx context.Context, q *db.VectorQuery) (*db.SearchResult, error) {
	if m.vectorSearchFn != nil {
		return m.vectorSearchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) VectorSearchLegacy(
	ctx context.Context, index, field string, vector []float32, limit int,
) (*db.SearchResult, error) {
	if m.vectorSearchLegacyFn != nil {
		return m.vectorSearchLegacyFn(ctx, index, field, vector, limit)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "reviewdex:reviews:")
	return repo, ms
}

func testQuery(t *testing.T, topK int) query.SimilarityQuery {
	t.Helper()
	q, err := query.NewBuilder(0).Build(
		[]float32{0.1, 0.2, 0.3}, "review_vector_idx", "embedding", topK,
		[]string{"hotel_name", "review_content"},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return q
}
