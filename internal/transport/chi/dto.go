package chi

import (
	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/result"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
)

// ErrorCode is a machine-readable error code returned in error bodies.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeChunkNotFound    ErrorCode = "chunk_not_found"
	ErrorCodeIndexUnavailable ErrorCode = "index_unavailable"
	ErrorCodeDimMismatch      ErrorCode = "vector_dim_mismatch"
	ErrorCodeInternal         ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query          string   `json:"query"`
	TopK           *int     `json:"top_k,omitempty"`
	Threshold      *float64 `json:"threshold,omitempty"`
	Chapter        string   `json:"chapter,omitempty"`
	Tag            string   `json:"tag,omitempty"`
	IncludeContext bool     `json:"include_context,omitempty"`
}

// ChunkResponse is a chunk with its metadata.
type ChunkResponse struct {
	ID         string   `json:"id"`
	DocumentID string   `json:"document_id"`
	Content    string   `json:"content"`
	Chapter    string   `json:"chapter"`
	Section    string   `json:"section,omitempty"`
	Subsection string   `json:"subsection,omitempty"`
	Level      int      `json:"level"`
	ChunkType  string   `json:"chunk_type"`
	Tags       []string `json:"tags"`
}

// SearchResultItem is one scored chunk.
type SearchResultItem struct {
	ChunkResponse
	Score float64 `json:"score"`
}

// SearchResponse is the body of a successful POST /search.
type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
	Total   int                `json:"total"`
	Context *string            `json:"context,omitempty"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	TotalChunks  int      `json:"total_chunks"`
	TotalVectors int      `json:"total_vectors"`
	Chapters     []string `json:"chapters"`
	Fallback     bool     `json:"fallback"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func chunkToResponse(c *chunk.Chunk) ChunkResponse {
	tags := c.Tags()
	if tags == nil {
		tags = []string{}
	}
	return ChunkResponse{
		ID:         c.ID(),
		DocumentID: c.DocumentID(),
		Content:    c.Content(),
		Chapter:    c.Chapter(),
		Section:    c.Section(),
		Subsection: c.Subsection(),
		Level:      c.Level(),
		ChunkType:  string(c.Type()),
		Tags:       tags,
	}
}

func searchResultToResponse(r *result.Result) SearchResultItem {
	c := r.Chunk()
	return SearchResultItem{ChunkResponse: chunkToResponse(&c), Score: r.Score()}
}

func statsToResponse(s *corpus.Stats) StatsResponse {
	chapters := s.Chapters
	if chapters == nil {
		chapters = []string{}
	}
	return StatsResponse{
		TotalChunks:  s.TotalChunks,
		TotalVectors: s.TotalVectors,
		Chapters:     chapters,
		Fallback:     s.Fallback,
	}
}
