package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/chunkdex/internal/domain"
	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/request"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/result"
	"github.com/kailas-cloud/chunkdex/internal/domain/vector"
	"github.com/kailas-cloud/chunkdex/internal/metrics"
)

// Service answers top-K cosine similarity queries with a linear scan.
type Service struct {
	corpus Corpus
	vec    Vectorizer
}

// New creates a search service.
func New(corpus Corpus, vec Vectorizer) *Service {
	return &Service{corpus: corpus, vec: vec}
}

// Search vectorizes the query text and runs SearchVector.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	start := time.Now()
	results, err := s.search(ctx, s.vec.Vectorize(req.Query()), req)
	observe(start, results, err)
	return results, err
}

// SearchVector scores every corpus vector against query. Pairs failing the
// filter are skipped; scores below the threshold are dropped. Results are
// sorted by descending score, equal scores keep corpus order.
// Returns domain.ErrIndexUnavailable when the corpus is not loaded.
func (s *Service) SearchVector(
	ctx context.Context, query []float32, req *request.Request,
) ([]result.Result, error) {
	start := time.Now()
	results, err := s.search(ctx, query, req)
	observe(start, results, err)
	return results, err
}

func (s *Service) search(
	ctx context.Context, query []float32, req *request.Request,
) ([]result.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := req.Filter()
	threshold := req.Threshold()
	checkFilter := !f.IsEmpty()

	results := make([]result.Result, 0, req.TopK())
	err := s.corpus.Scan(func(c *chunk.Chunk, vec []float32) bool {
		if checkFilter && !f.MatchChunk(c) {
			return true
		}
		score := vector.Cosine(query, vec)
		if score >= threshold {
			results = append(results, result.New(*c, score))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
	if len(results) > req.TopK() {
		results = results[:req.TopK()]
	}
	return results, nil
}

func observe(start time.Time, results []result.Result, err error) {
	status := "ok"
	switch {
	case errors.Is(err, domain.ErrIndexUnavailable):
		status = "unavailable"
	case err != nil:
		status = "error"
	default:
		metrics.SearchResults.Observe(float64(len(results)))
	}
	metrics.SearchRequestsTotal.WithLabelValues(status).Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
}
