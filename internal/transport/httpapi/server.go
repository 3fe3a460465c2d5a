// Package httpapi exposes the retrieval service over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/roamstay/reviewdex/internal/domain"
	"github.com/roamstay/reviewdex/internal/domain/search/result"
	healthuc "github.com/roamstay/reviewdex/internal/usecase/health"
)

const (
	defaultTopK = 5
	maxTopK     = 100
)

// SearchService runs a retrieval query.
type SearchService interface {
	Search(ctx context.Context, text string, topK int) ([]result.ScoredResult, error)
}

// HealthService reports aggregated component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	search SearchService
	health HealthService
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, health HealthService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{search: search, health: health, logger: logger}
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResultItem struct {
	ID              string            `json:"id"`
	SimilarityScore float64           `json:"similarity_score"`
	Fields          map[string]string `json:"fields"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Count   int                `json:"count"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleSearch handles POST /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Query text is required")
		return
	}
	if req.TopK < 0 || req.TopK > maxTopK {
		writeError(w, http.StatusBadRequest, "validation_failed", "top_k must be between 1 and 100")
		return
	}
	topK := req.TopK
	if topK == 0 {
		topK = defaultTopK
	}

	results, err := s.search.Search(r.Context(), req.Query, topK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]searchResultItem, 0, len(results))
	for i := range results {
		items = append(items, searchResultItem{
			ID:              results[i].ID(),
			SimilarityScore: results[i].Score(),
			Fields:          results[i].Fields(),
		})
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: items, Count: len(items)})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// handleDomainError maps sentinel errors to HTTP responses without exposing
// internals to the client.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("Search request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, domain.ErrEncodingFailed):
		writeError(w, http.StatusBadGateway, "encoding_failed", domain.ErrEncodingFailed.Error())
	case errors.Is(err, domain.ErrSearchUnavailable):
		writeError(w, http.StatusBadGateway, "search_unavailable", domain.ErrSearchUnavailable.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", domain.ErrStoreUnavailable.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
