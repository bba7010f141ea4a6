package request

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/chunkdex/internal/domain"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength   = 4096
	DefaultTopK      = 5
	MaxTopK          = 500
	DefaultThreshold = 0.7
)

// Request is a validated retrieval query.
type Request struct {
	query     string
	topK      int
	threshold float64
	filter    filter.Filter
}

// New validates and normalizes search parameters.
// topK <= 0 falls back to DefaultTopK and is clamped to MaxTopK.
// threshold must lie in [0, 1]; NaN is rejected.
func New(query string, topK int, threshold float64, f filter.Filter) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return Request{}, fmt.Errorf("%w: threshold must be between 0 and 1, got %g", domain.ErrInvalidRequest, threshold)
	}
	return Request{query: query, topK: topK, threshold: threshold, filter: f}, nil
}

// Query returns the query text (empty for vector-only requests).
func (r *Request) Query() string { return r.query }

// TopK returns the maximum number of results.
func (r *Request) TopK() int { return r.topK }

// Threshold returns the minimum cosine similarity a result must reach.
func (r *Request) Threshold() float64 { return r.threshold }

// Filter returns the metadata filter.
func (r *Request) Filter() filter.Filter { return r.filter }
