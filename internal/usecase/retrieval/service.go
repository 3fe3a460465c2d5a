// Package retrieval implements the tiered vector retrieval resolver: encode
// the query, attempt the structured search form, escalate to the legacy form
// on hard failure, then resolve each hit's fields through an ordered chain of
// per-row strategies.
package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/roamstay/reviewdex/internal/domain"
	"github.com/roamstay/reviewdex/internal/domain/search/hit"
	"github.com/roamstay/reviewdex/internal/domain/search/query"
	"github.com/roamstay/reviewdex/internal/domain/search/result"
	"github.com/roamstay/reviewdex/internal/metrics"
)

// Config holds resolver settings.
type Config struct {
	IndexName       string
	VectorField     string
	ProjectedFields []string
	// CandidatePoolFloor is the minimum ANN candidate pool; the effective
	// pool is max(floor, topK). <= 0 selects query.DefaultPoolFloor.
	CandidatePoolFloor int
	// AttemptTimeout bounds each tier attempt and each per-row fetch.
	// 0 disables the internal timeout; latency is then bounded only by the
	// store client configuration.
	AttemptTimeout time.Duration
	// RowWorkers bounds concurrent per-row field resolution.
	RowWorkers int
}

// Service is the retrieval resolver.
type Service struct {
	search  Searcher
	docs    DocumentReader
	embed   Embedder
	builder query.Builder
	cfg     Config
	pool    *ants.Pool
	logger  *zap.Logger
}

// New creates a resolver with a bounded row-resolution worker pool.
func New(search Searcher, docs DocumentReader, embed Embedder, cfg Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := cfg.RowWorkers
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create row worker pool: %w", err)
	}

	return &Service{
		search:  search,
		docs:    docs,
		embed:   embed,
		builder: query.NewBuilder(cfg.CandidatePoolFloor),
		cfg:     cfg,
		pool:    pool,
		logger:  logger,
	}, nil
}

// Close releases the row worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// tier is one level of the search escalation chain.
type tier struct {
	name string
	run  func(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error)
}

// Search encodes the query text and returns ranked results for it. The
// returned slice may be empty; that is a valid zero-match outcome, not an
// error. Order mirrors the store's ranking exactly.
func (s *Service) Search(ctx context.Context, text string, topK int) ([]result.ScoredResult, error) {
	start := time.Now()

	results, err := s.doSearch(ctx, text, topK)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	return results, err
}

func (s *Service) doSearch(ctx context.Context, text string, topK int) ([]result.ScoredResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty query text", domain.ErrEncodingFailed)
	}

	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncodingFailed, err)
	}

	q, err := s.builder.Build(emb.Embedding, s.cfg.IndexName, s.cfg.VectorField, topK, s.cfg.ProjectedFields)
	if err != nil {
		return nil, fmt.Errorf("build similarity query: %w", err)
	}

	hits, err := s.runTiers(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		// Zero matches is a terminal outcome, never an escalation trigger.
		return []result.ScoredResult{}, nil
	}

	return s.resolveRows(ctx, hits, q.Projection()), nil
}

// runTiers walks the escalation chain in order until a tier succeeds. Only a
// hard failure of the search call escalates; an empty result set terminates
// the chain.
func (s *Service) runTiers(ctx context.Context, q query.SimilarityQuery) ([]hit.RawHit, error) {
	tiers := []tier{
		{name: "structured", run: s.search.Structured},
		{name: "legacy", run: s.search.Legacy},
	}

	var lastErr error
	for _, t := range tiers {
		attemptCtx, cancel := s.attemptCtx(ctx)
		hits, err := t.run(attemptCtx, q)
		cancel()

		if err == nil {
			metrics.SearchTierTotal.WithLabelValues(t.name, "ok").Inc()
			return hits, nil
		}

		metrics.SearchTierTotal.WithLabelValues(t.name, "error").Inc()
		s.logger.Warn("Search tier failed",
			zap.String("tier", t.name),
			zap.Error(err),
		)
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, lastErr)
}

// attemptCtx derives a per-attempt deadline when one is configured.
func (s *Service) attemptCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.AttemptTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.AttemptTimeout)
}
