package retrieval

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/roamstay/reviewdex/internal/domain/search/hit"
	"github.com/roamstay/reviewdex/internal/domain/search/result"
	"github.com/roamstay/reviewdex/internal/metrics"
)

// rowResolver is one strategy in the per-row resolution chain. ok reports
// whether the strategy produced usable fields; a false return passes the row
// to the next strategy.
type rowResolver struct {
	path    string
	resolve func(ctx context.Context, h *hit.RawHit) (map[string]string, bool)
}

func (s *Service) rowResolvers() []rowResolver {
	return []rowResolver{
		{path: "inline", resolve: s.inlineRow},
		{path: "kv_fetch", resolve: s.fetchRow},
		{path: "query", resolve: s.queryRow},
	}
}

// resolveRows runs the row chain for every hit on the bounded worker pool.
// Indexed slots preserve the store's ranking; rows that fail every strategy
// are dropped and the remainder compacts without re-sorting.
func (s *Service) resolveRows(ctx context.Context, hits []hit.RawHit, projection []string) []result.ScoredResult {
	resolvers := s.rowResolvers()
	slots := make([]*result.ScoredResult, len(hits))

	var wg sync.WaitGroup
	for i := range hits {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			slots[i] = s.resolveRow(ctx, &hits[i], resolvers, projection)
		}
		if err := s.pool.Submit(task); err != nil {
			// Pool released or overloaded; resolve on the caller goroutine.
			task()
		}
	}
	wg.Wait()

	out := make([]result.ScoredResult, 0, len(hits))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (s *Service) resolveRow(
	ctx context.Context, h *hit.RawHit, resolvers []rowResolver, projection []string,
) *result.ScoredResult {
	for _, rr := range resolvers {
		fields, ok := rr.resolve(ctx, h)
		if !ok {
			continue
		}
		metrics.RowResolutionTotal.WithLabelValues(rr.path).Inc()
		r := result.Normalize(h.ID(), h.Distance(), fields, projection)
		return &r
	}

	metrics.RowResolutionTotal.WithLabelValues("dropped").Inc()
	s.logger.Warn("Dropping unresolvable search hit", zap.String("doc_id", h.ID()))
	return nil
}

func (s *Service) inlineRow(_ context.Context, h *hit.RawHit) (map[string]string, bool) {
	if !h.HasFields() {
		return nil, false
	}
	return h.Fields(), true
}

func (s *Service) fetchRow(ctx context.Context, h *hit.RawHit) (map[string]string, bool) {
	attemptCtx, cancel := s.attemptCtx(ctx)
	defer cancel()

	fields, err := s.docs.Fetch(attemptCtx, h.ID(), s.cfg.ProjectedFields)
	if err != nil {
		s.logger.Debug("Key-value fetch failed for hit",
			zap.String("doc_id", h.ID()),
			zap.Error(err),
		)
		return nil, false
	}
	return fields, true
}

func (s *Service) queryRow(ctx context.Context, h *hit.RawHit) (map[string]string, bool) {
	attemptCtx, cancel := s.attemptCtx(ctx)
	defer cancel()

	fields, err := s.docs.QueryFields(attemptCtx, h.ID(), s.cfg.ProjectedFields)
	if err != nil {
		s.logger.Debug("Declarative lookup failed for hit",
			zap.String("doc_id", h.ID()),
			zap.Error(err),
		)
		return nil, false
	}
	return fields, true
}
