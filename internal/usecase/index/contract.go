package index

import (
	"context"

	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
)

// Repository persists corpus snapshots.
type Repository interface {
	Save(ctx context.Context, entries []corpus.Entry, summary corpus.Summary) error
	LoadChunks(ctx context.Context) ([]chunk.Chunk, error)
	Delete(ctx context.Context) error
}

// Segmenter splits a document into chunks.
type Segmenter interface {
	Segment(text string) ([]chunk.Chunk, error)
}
