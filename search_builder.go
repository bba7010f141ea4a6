package chunkdex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/chunkdex/internal/domain/search/filter"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/request"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/result"
)

// SearchBuilder is a fluent builder for similarity queries.
type SearchBuilder struct {
	svc searchUseCase

	query     string
	topK      int
	threshold float64
	chapter   string
	tag       string
}

// TopK sets the maximum number of hits. Default: 5.
func (b *SearchBuilder) TopK(k int) *SearchBuilder {
	b.topK = k
	return b
}

// Threshold sets the minimum cosine similarity, in [0, 1]. Default: 0.7.
func (b *SearchBuilder) Threshold(t float64) *SearchBuilder {
	b.threshold = t
	return b
}

// Chapter restricts hits to one chapter (exact match).
func (b *SearchBuilder) Chapter(ch string) *SearchBuilder {
	b.chapter = ch
	return b
}

// Tag restricts hits to chunks carrying tag.
func (b *SearchBuilder) Tag(tag string) *SearchBuilder {
	b.tag = tag
	return b
}

// Do executes the search. Hits are ordered by descending score.
func (b *SearchBuilder) Do(ctx context.Context) ([]Hit, error) {
	results, err := b.run(ctx)
	if err != nil {
		return nil, err
	}
	return hitsFromResults(results), nil
}

// Context executes the search and renders the hits as one retrieval context
// block, each prefixed with its source heading.
func (b *SearchBuilder) Context(ctx context.Context) (string, error) {
	results, err := b.run(ctx)
	if err != nil {
		return "", err
	}
	return result.BuildContext(results), nil
}

func (b *SearchBuilder) run(ctx context.Context) ([]result.Result, error) {
	req, err := request.New(b.query, b.topK, b.threshold, filter.New(b.chapter, b.tag))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	results, err := b.svc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return results, nil
}
