package review

import (
	"context"
	"testing"

	"github.com/roamstay/reviewdex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonGetFn      func(ctx context.Context, key string, paths ...string) ([]byte, error)
	queryByFieldFn func(ctx context.Context, q *db.FieldQuery) (*db.SearchResult, error)
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) QueryByField(ctx context.Context, q *db.FieldQuery) (*db.SearchResult, error) {
	if m.queryByFieldFn != nil {
		return m.queryByFieldFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "reviewdex:reviews:", "review_vector_idx", "review_id")
	return repo, ms
}
