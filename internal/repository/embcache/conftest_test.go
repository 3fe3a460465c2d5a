package embcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/roamstay/reviewdex/internal/db"
	"github.com/roamstay/reviewdex/internal/domain"
)

// mockKV implements the consumer store interface for tests.
type mockKV struct {
	data   map[string][]byte
	getErr error
	setErr error
	getCnt int
	setCnt int
}

func newMockKV() *mockKV {
	return &mockKV{data: map[string][]byte{}}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	m.getCnt++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKV) Set(_ context.Context, key string, value []byte) error {
	m.setCnt++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

// mockEmbedder counts calls and returns a fixed vector.
type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 7}, nil
}

func newTestCache(t *testing.T) (*CachedEmbedder, *mockKV, *mockEmbedder) {
	t.Helper()
	kv := newMockKV()
	inner := &mockEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	c := New(inner, kv, "reviewdex:", nil, zap.NewNop())
	return c, kv, inner
}
