// Package search adapts store vector search results into domain hits.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/roamstay/reviewdex/internal/db"
	"github.com/roamstay/reviewdex/internal/domain/search/hit"
	"github.com/roamstay/reviewdex/internal/domain/search/query"
)

// store is the consumer interface for vector search (ISP).
type store interface {
	VectorSearch(ctx context.Context, q *db.VectorQuery) (*db.SearchResult, error)
	VectorSearchLegacy(ctx context.Context, index, field string, vector []float32, limit int) (*db.SearchResult, error)
}

// Repo executes the two vector search forms and maps entries to raw hits.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a search repository. keyPrefix is stripped from entry keys to
// recover document ids.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Structured runs the structured vector search form with inline projection.
func (r *Repo) Structured(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error) {
	sr, err := r.store.VectorSearch(ctx, &db.VectorQuery{
		IndexName:     q.Index(),
		VectorField:   q.VectorField(),
		Vector:        q.Vector(),
		CandidatePool: q.CandidatePool(),
		Limit:         q.Limit(),
		ReturnFields:  q.Projection(),
	})
	if err != nil {
		return nil, fmt.Errorf("vector search %s: %w", q.Index(), err)
	}
	return r.toHits(sr), nil
}

// Legacy runs the primitive vector search form against the same index with
// identical field, vector and limit. Hits carry no inline fields.
func (r *Repo) Legacy(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error) {
	sr, err := r.store.VectorSearchLegacy(ctx, q.Index(), q.VectorField(), q.Vector(), q.Limit())
	if err != nil {
		return nil, fmt.Errorf("legacy vector search %s: %w", q.Index(), err)
	}
	return r.toHits(sr), nil
}

// toHits converts store entries to raw hits preserving the store's ranking
// order. Entries with empty field maps become hits without inline fields.
func (r *Repo) toHits(sr *db.SearchResult) []hit.RawHit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	hits := make([]hit.RawHit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, r.keyPrefix)
		var fields map[string]string
		if len(entry.Fields) > 0 {
			fields = entry.Fields
		}
		hits = append(hits, hit.New(id, entry.Distance, fields))
	}
	return hits
}
