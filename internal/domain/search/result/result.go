package result

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
)

// Result is a single search hit.
type Result struct {
	chunk chunk.Chunk
	score float64
}

// New creates a search result.
func New(c chunk.Chunk, score float64) Result {
	return Result{chunk: c, score: score}
}

// Chunk returns the matched chunk.
func (r *Result) Chunk() chunk.Chunk { return r.chunk }

// ID returns the chunk identifier.
func (r *Result) ID() string { return r.chunk.ID() }

// Score returns the cosine similarity to the query.
func (r *Result) Score() float64 { return r.score }

// Content returns the chunk content.
func (r *Result) Content() string { return r.chunk.Content() }

// contextSeparator divides sources in a rendered context block.
const contextSeparator = "\n\n---\n\n"

// BuildContext renders results as a numbered, source-attributed context block
// for a downstream answer generator. Returns "" for no results.
func BuildContext(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	parts := make([]string, len(results))
	for i := range results {
		c := results[i].chunk
		source := "document " + c.DocumentID()
		if c.Chapter() != "" {
			source = c.Chapter() + " - " + c.Section()
		}
		parts[i] = fmt.Sprintf("[source %d: %s]\n%s", i+1, source, c.Content())
	}
	return strings.Join(parts, contextSeparator)
}
