package index

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chunkdex/internal/domain"
	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
	"github.com/kailas-cloud/chunkdex/internal/segment"
)

// ErrEmptyDocument is returned when segmentation yields no chunks.
var ErrEmptyDocument = errors.New("document produced no chunks")

// Service builds and maintains the persisted corpus.
type Service struct {
	repo   Repository
	seg    Segmenter
	vec    domain.Vectorizer
	logger *zap.Logger
}

// New creates an index service.
func New(repo Repository, seg Segmenter, vec domain.Vectorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, seg: seg, vec: vec, logger: logger}
}

// Build segments a document, vectorizes every chunk and saves all snapshots.
func (s *Service) Build(ctx context.Context, text string) (corpus.Summary, error) {
	chunks, err := s.seg.Segment(text)
	if err != nil {
		return corpus.Summary{}, fmt.Errorf("segment: %w", err)
	}
	if len(chunks) == 0 {
		return corpus.Summary{}, ErrEmptyDocument
	}
	s.logger.Info("document segmented",
		zap.Int("chunks", len(chunks)),
		zap.Int("characters", utf8.RuneCountInString(text)),
	)
	return s.save(ctx, segment.SummarizeDocument(text, chunks), chunks)
}

// Reindex re-reads the chunks snapshot and regenerates every vector.
func (s *Service) Reindex(ctx context.Context) (corpus.Summary, error) {
	chunks, err := s.repo.LoadChunks(ctx)
	if err != nil {
		return corpus.Summary{}, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return corpus.Summary{}, ErrEmptyDocument
	}
	chars := 0
	for i := range chunks {
		chars += utf8.RuneCountInString(chunks[i].Content())
	}
	return s.save(ctx, segment.Summarize(chars, chunks), chunks)
}

// Delete removes the persisted corpus.
func (s *Service) Delete(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		return fmt.Errorf("delete corpus: %w", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, seg segment.Summary, chunks []chunk.Chunk) (corpus.Summary, error) {
	entries := make([]corpus.Entry, len(chunks))
	for i := range chunks {
		if err := ctx.Err(); err != nil {
			return corpus.Summary{}, err
		}
		entries[i] = corpus.Entry{Chunk: chunks[i], Vector: s.vec.Vectorize(chunks[i].Content())}
	}

	summary := corpus.Summary{
		Summary:      seg,
		VectorScheme: s.vec.Scheme(),
		Dimension:    s.vec.Dimension(),
	}
	if err := s.repo.Save(ctx, entries, summary); err != nil {
		return corpus.Summary{}, fmt.Errorf("save corpus: %w", err)
	}

	s.logger.Info("corpus built",
		zap.Int("chunks", summary.TotalChunks),
		zap.Int("avg_chunk_size", summary.AvgChunkSize),
		zap.String("scheme", summary.VectorScheme),
		zap.Int("dimension", summary.Dimension),
	)
	return summary, nil
}
