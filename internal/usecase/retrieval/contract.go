package retrieval

import (
	"context"

	"github.com/roamstay/reviewdex/internal/domain"
	"github.com/roamstay/reviewdex/internal/domain/search/hit"
	"github.com/roamstay/reviewdex/internal/domain/search/query"
)

// Searcher executes the vector search forms against the review index.
type Searcher interface {
	// Structured runs the preferred search form with inline field projection.
	Structured(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error)
	// Legacy runs the primitive fallback form with identical index, field,
	// vector and limit.
	Legacy(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error)
}

// DocumentReader resolves projected fields for a single document.
type DocumentReader interface {
	// Fetch retrieves the document by id via key-value lookup.
	Fetch(ctx context.Context, id string, fields []string) (map[string]string, error)
	// QueryFields looks the document up through a declarative query on the
	// indexed id field.
	QueryFields(ctx context.Context, id string, fields []string) (map[string]string, error)
}

// Embedder vectorizes query text into an embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
