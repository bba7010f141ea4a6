package filter

import "github.com/kailas-cloud/chunkdex/internal/domain/chunk"

// Filter is an exact-match metadata filter. Empty fields match everything.
type Filter struct {
	chapter string
	tag     string
}

// New creates a Filter. Pass "" to leave a field unconstrained.
func New(chapter, tag string) Filter {
	return Filter{chapter: chapter, tag: tag}
}

// Chapter returns the required chapter ("" = any).
func (f Filter) Chapter() string { return f.chapter }

// Tag returns the required tag ("" = any).
func (f Filter) Tag() string { return f.tag }

// IsEmpty reports whether the filter has no conditions.
func (f Filter) IsEmpty() bool { return f.chapter == "" && f.tag == "" }

// Match reports whether the chunk metadata satisfies every condition.
func (f Filter) Match(m chunk.Metadata) bool {
	if f.chapter != "" && m.Chapter != f.chapter {
		return false
	}
	if f.tag != "" && !m.HasTag(f.tag) {
		return false
	}
	return true
}

// MatchChunk is Match against a chunk's own fields, without copying its metadata.
func (f Filter) MatchChunk(c *chunk.Chunk) bool {
	if f.chapter != "" && c.Chapter() != f.chapter {
		return false
	}
	if f.tag != "" && !c.HasTag(f.tag) {
		return false
	}
	return true
}
