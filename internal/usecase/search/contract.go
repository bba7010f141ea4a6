package search

import "github.com/kailas-cloud/chunkdex/internal/domain/chunk"

// Corpus is the read side of the corpus store used by the engine.
type Corpus interface {
	// Scan iterates (chunk, vector) pairs in corpus order under a shared lock.
	Scan(fn func(c *chunk.Chunk, vec []float32) bool) error
}

// Vectorizer maps query text into the corpus vector space.
type Vectorizer interface {
	Vectorize(text string) []float32
}
