package retrieval

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/roamstay/reviewdex/internal/domain"
	"github.com/roamstay/reviewdex/internal/domain/search/hit"
	"github.com/roamstay/reviewdex/internal/domain/search/query"
)

var testProjection = []string{
	"hotel_name", "review_content", "review_author", "review_date", "review_ratings",
}

type mockSearcher struct {
	mu           sync.Mutex
	structuredFn func(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error)
	legacyFn     func(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error)

	structuredCalls   int
	legacyCalls       int
	structuredQueries []query.SimilarityQuery
	legacyQueries     []query.SimilarityQuery
}

func (m *mockSearcher) Structured(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error) {
	m.mu.Lock()
	m.structuredCalls++
	m.structuredQueries = append(m.structuredQueries, q)
	m.mu.Unlock()
	if m.structuredFn == nil {
		return nil, nil
	}
	return m.structuredFn(ctx, q)
}

func (m *mockSearcher) Legacy(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error) {
	m.mu.Lock()
	m.legacyCalls++
	m.legacyQueries = append(m.legacyQueries, q)
	m.mu.Unlock()
	if m.legacyFn == nil {
		return nil, nil
	}
	return m.legacyFn(ctx, q)
}

type mockDocs struct {
	mu      sync.Mutex
	fetchFn func(ctx context.Context, id string, fields []string) (map[string]string, error)
	queryFn func(ctx context.Context, id string, fields []string) (map[string]string, error)

	fetchCalls int
	queryCalls int
	fetchIDs   []string
	queryIDs   []string
}

func (m *mockDocs) Fetch(ctx context.Context, id string, fields []string) (map[string]string, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.fetchIDs = append(m.fetchIDs, id)
	m.mu.Unlock()
	if m.fetchFn == nil {
		return nil, domain.ErrDocumentNotFound
	}
	return m.fetchFn(ctx, id, fields)
}

func (m *mockDocs) QueryFields(ctx context.Context, id string, fields []string) (map[string]string, error) {
	m.mu.Lock()
	m.queryCalls++
	m.queryIDs = append(m.queryIDs, id)
	m.mu.Unlock()
	if m.queryFn == nil {
		return nil, domain.ErrDocumentNotFound
	}
	return m.queryFn(ctx, id, fields)
}

func (m *mockDocs) counts() (fetch, query int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls, m.queryCalls
}

type mockEmbedder struct {
	mu      sync.Mutex
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.embedFn == nil {
		return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
	}
	return m.embedFn(ctx, text)
}

func newTestService(t *testing.T, search *mockSearcher, docs *mockDocs, embed *mockEmbedder) *Service {
	t.Helper()

	svc, err := New(search, docs, embed, Config{
		IndexName:       "review_vector_idx",
		VectorField:     "embedding",
		ProjectedFields: testProjection,
		RowWorkers:      2,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func testHit(id string, distance float64, fields map[string]string) hit.RawHit {
	return hit.New(id, distance, fields)
}

func fullFields(hotel string) map[string]string {
	return map[string]string{
		"hotel_name":     hotel,
		"review_content": "Lovely stay, would return.",
		"review_author":  "Pat",
		"review_date":    "2024-06-01",
		"review_ratings": `{"Overall":4.5}`,
	}
}
