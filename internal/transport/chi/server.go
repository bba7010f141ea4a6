package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chunkdex/internal/domain"
	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/filter"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/request"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/chunkdex/internal/logger"
	"github.com/kailas-cloud/chunkdex/internal/metrics"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
	healthuc "github.com/kailas-cloud/chunkdex/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Corpus is the corpus store as seen by the HTTP layer.
type Corpus interface {
	Stats() (corpus.Stats, error)
	Chunk(id string) (chunk.Chunk, error)
	Reload(ctx context.Context) error
}

// Searcher runs similarity searches.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

// Server serves the retrieval API.
type Server struct {
	search        Searcher
	corpus        Corpus
	health        *healthuc.Service
	logger        *zap.Logger
	topK          int
	threshold     float64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, c Corpus, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search:    search,
		corpus:    c,
		health:    health,
		logger:    logger,
		topK:      request.DefaultTopK,
		threshold: request.DefaultThreshold,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, ErrorCodeIndexUnavailable),
		sentinelHandler(domain.ErrChunkNotFound, http.StatusNotFound, ErrorCodeChunkNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, ErrorCodeDimMismatch),
		sentinelHandler(domain.ErrSnapshotNotFound, http.StatusServiceUnavailable, ErrorCodeIndexUnavailable),
		sentinelHandler(domain.ErrSnapshotCorrupt, http.StatusServiceUnavailable, ErrorCodeIndexUnavailable),
	}
	return s
}

// WithDefaults sets the top_k and threshold used when a request omits them.
func (s *Server) WithDefaults(topK int, threshold float64) *Server {
	if topK > 0 {
		s.topK = topK
	}
	if threshold >= 0 && threshold <= 1 {
		s.threshold = threshold
	}
	return s
}

// Router builds the chi router with the standard middleware chain.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Post("/search", s.Search)
	r.Get("/chunks/{id}", s.GetChunk)
	r.Get("/stats", s.Stats)
	r.Post("/reload", s.Reload)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
	return r
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(body.Query) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "query is required")
		return
	}

	topK := s.topK
	if body.TopK != nil {
		topK = *body.TopK
	}
	threshold := s.threshold
	if body.Threshold != nil {
		threshold = *body.Threshold
	}

	req, err := request.New(body.Query, topK, threshold, filter.New(body.Chapter, body.Tag))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToResponse(&results[i])
	}
	resp := SearchResponse{Results: items, Total: len(items)}
	if body.IncludeContext {
		ctxText := result.BuildContext(results)
		resp.Context = &ctxText
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetChunk handles GET /chunks/{id}.
func (s *Server) GetChunk(w http.ResponseWriter, r *http.Request) {
	c, err := s.corpus.Chunk(chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chunkToResponse(&c))
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.corpus.Stats()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(&st))
}

// Reload handles POST /reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	if err := s.corpus.Reload(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Invalid requests keep their full message since it only describes the input.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrIndexUnavailable,
		domain.ErrChunkNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrSnapshotNotFound,
		domain.ErrSnapshotCorrupt,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError logs through the request-scoped logger so that error
// lines carry the request id.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternal, "internal error")
}
