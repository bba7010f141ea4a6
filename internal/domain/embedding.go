package domain

// Vectorizer is the shared text vectorization contract between layers.
// Build-time and query-time callers must use the same implementation.
type Vectorizer interface {
	Vectorize(text string) []float32
	Dimension() int
	Scheme() string
}
