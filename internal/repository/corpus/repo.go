package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chunkdex/internal/db"
	"github.com/kailas-cloud/chunkdex/internal/domain"
	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/metrics"
	"github.com/kailas-cloud/chunkdex/internal/segment"
)

// store is the consumer interface for snapshot blobs (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// State is the lifecycle state of the in-memory corpus.
type State string

// Corpus states.
const (
	StateUnloaded    State = "unloaded"
	StateReady       State = "ready"
	StateFallback    State = "fallback"
	StateUnavailable State = "unavailable"
)

// Paths are the snapshot keys in the backing store.
type Paths struct {
	Chunks  string
	Vectors string
	Stats   string
}

// Options configure the corpus store.
type Options struct {
	// Dimension is the expected vector dimension, used as-is in fallback mode.
	Dimension int
	// Fallback serves an empty corpus instead of failing when a load fails.
	Fallback bool
	// DocumentID is assigned to chunk records that carry none.
	DocumentID string
	Logger     *zap.Logger
}

// Entry pairs a chunk with its vector for Save.
type Entry struct {
	Chunk  chunk.Chunk
	Vector []float32
}

// Summary is the build summary persisted alongside the snapshots.
type Summary struct {
	segment.Summary
	VectorScheme string
	Dimension    int
}

// Stats describes the resident corpus.
type Stats struct {
	TotalChunks  int
	TotalVectors int
	Chapters     []string
	Fallback     bool
}

type vectorEntry struct {
	id  string
	vec []float32
}

// Store keeps the corpus resident in memory. Loads take the write lock;
// lookups and scans take the read lock.
type Store struct {
	kv     store
	paths  Paths
	opts   Options
	logger *zap.Logger

	mu       sync.RWMutex
	state    State
	chunks   map[string]chunk.Chunk
	vectors  []vectorEntry
	chapters map[string]struct{}
}

// New creates a corpus store. Nothing is loaded until Load is called.
func New(s store, paths Paths, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:     s,
		paths:  paths,
		opts:   opts,
		logger: logger,
		state:  StateUnloaded,
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Available reports whether the corpus can answer queries (ready or fallback).
func (s *Store) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.available()
}

// Dimension returns the configured vector dimension.
func (s *Store) Dimension() int { return s.opts.Dimension }

// Load reads both snapshots into memory.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, "load")
}

// Reload clears the resident corpus and loads it again. A failed reload
// leaves the store unavailable (or in fallback mode when enabled).
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	return s.load(ctx, "reload")
}

func (s *Store) load(ctx context.Context, op string) error {
	err := s.loadSnapshots(ctx)
	if err == nil {
		s.state = StateReady
		s.observe(op, "ok")
		s.logger.Info("corpus loaded",
			zap.String("op", op),
			zap.Int("chunks", len(s.chunks)),
			zap.Int("vectors", len(s.vectors)),
			zap.Int("chapters", len(s.chapters)),
		)
		return nil
	}

	s.clear()
	if s.opts.Fallback {
		s.state = StateFallback
		s.observe(op, "fallback")
		s.logger.Warn("corpus load failed, serving empty fallback corpus",
			zap.String("op", op),
			zap.Int("dimension", s.opts.Dimension),
			zap.Error(err),
		)
		return nil
	}

	s.state = StateUnavailable
	s.observe(op, "error")
	s.logger.Error("corpus load failed", zap.String("op", op), zap.Error(err))
	return err
}

func (s *Store) loadSnapshots(ctx context.Context) error {
	chunkRecs, err := s.readArray(ctx, s.paths.Chunks)
	if err != nil {
		return err
	}
	vectorRecs, err := s.readArray(ctx, s.paths.Vectors)
	if err != nil {
		return err
	}

	chunks := make(map[string]chunk.Chunk, len(chunkRecs))
	chapters := make(map[string]struct{})
	skippedChunks := 0
	for _, raw := range chunkRecs {
		var rec chunkRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.ID == "" {
			skippedChunks++
			continue
		}
		c := parseChunkRecord(&rec, s.opts.DocumentID)
		chunks[rec.ID] = c
		if ch := c.Chapter(); ch != "" {
			chapters[ch] = struct{}{}
		}
	}

	vectors := make([]vectorEntry, 0, len(vectorRecs))
	pos := make(map[string]int, len(vectorRecs))
	skippedVectors := 0
	for _, raw := range vectorRecs {
		var rec vectorRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.ID == "" || rec.Vector == nil {
			skippedVectors++
			continue
		}
		// A repeated id replaces the earlier vector in place.
		if i, ok := pos[rec.ID]; ok {
			vectors[i].vec = rec.Vector
			continue
		}
		pos[rec.ID] = len(vectors)
		vectors = append(vectors, vectorEntry{id: rec.ID, vec: rec.Vector})
	}

	if skippedChunks > 0 || skippedVectors > 0 {
		metrics.CorpusSkippedRecordsTotal.WithLabelValues("chunks").Add(float64(skippedChunks))
		metrics.CorpusSkippedRecordsTotal.WithLabelValues("vectors").Add(float64(skippedVectors))
		s.logger.Warn("skipped malformed snapshot records",
			zap.Int("chunks", skippedChunks),
			zap.Int("vectors", skippedVectors),
		)
	}

	s.chunks = chunks
	s.vectors = vectors
	s.chapters = chapters
	return nil
}

func (s *Store) readArray(ctx context.Context, key string) ([]json.RawMessage, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%s: %w", key, domain.ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	var recs []json.RawMessage
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", key, domain.ErrSnapshotCorrupt, err)
	}
	if recs == nil {
		// A literal null is not an array.
		return nil, fmt.Errorf("%s: %w: not a JSON array", key, domain.ErrSnapshotCorrupt)
	}
	return recs, nil
}

func (s *Store) clear() {
	s.chunks = nil
	s.vectors = nil
	s.chapters = nil
}

func (s *Store) observe(op, result string) {
	metrics.CorpusLoadsTotal.WithLabelValues(op, result).Inc()
	metrics.CorpusChunks.Set(float64(len(s.chunks)))
	metrics.CorpusVectors.Set(float64(len(s.vectors)))
	if s.available() {
		metrics.CorpusAvailable.Set(1)
	} else {
		metrics.CorpusAvailable.Set(0)
	}
}

func (s *Store) available() bool {
	return s.state == StateReady || s.state == StateFallback
}

// Stats returns corpus counts. Chapters are sorted.
func (s *Store) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.available() {
		return Stats{}, domain.ErrIndexUnavailable
	}
	chapters := make([]string, 0, len(s.chapters))
	for ch := range s.chapters {
		chapters = append(chapters, ch)
	}
	sort.Strings(chapters)
	return Stats{
		TotalChunks:  len(s.chunks),
		TotalVectors: len(s.vectors),
		Chapters:     chapters,
		Fallback:     s.state == StateFallback,
	}, nil
}

// Chunk returns a resident chunk by ID.
func (s *Store) Chunk(id string) (chunk.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.available() {
		return chunk.Chunk{}, domain.ErrIndexUnavailable
	}
	c, ok := s.chunks[id]
	if !ok {
		return chunk.Chunk{}, domain.ErrChunkNotFound
	}
	return c, nil
}

// Scan calls fn for every vector that has a matching chunk, in vectors
// snapshot order, until fn returns false. The read lock is held throughout,
// so fn must not call back into the store. The vector slice must not be
// modified.
func (s *Store) Scan(fn func(c *chunk.Chunk, vec []float32) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.available() {
		return domain.ErrIndexUnavailable
	}
	for _, v := range s.vectors {
		c, ok := s.chunks[v.id]
		if !ok {
			continue
		}
		if !fn(&c, v.vec) {
			return nil
		}
	}
	return nil
}

// LoadChunks reads the chunks snapshot without touching the resident corpus.
// Records are returned in snapshot order; malformed ones are skipped.
func (s *Store) LoadChunks(ctx context.Context) ([]chunk.Chunk, error) {
	recs, err := s.readArray(ctx, s.paths.Chunks)
	if err != nil {
		return nil, err
	}
	chunks := make([]chunk.Chunk, 0, len(recs))
	skipped := 0
	for _, raw := range recs {
		var rec chunkRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.ID == "" {
			skipped++
			continue
		}
		chunks = append(chunks, parseChunkRecord(&rec, s.opts.DocumentID))
	}
	if skipped > 0 {
		metrics.CorpusSkippedRecordsTotal.WithLabelValues("chunks").Add(float64(skipped))
		s.logger.Warn("skipped malformed chunk records", zap.Int("chunks", skipped))
	}
	return chunks, nil
}

// Save writes the chunks, vectors and stats snapshots. The resident corpus is
// not changed; call Reload to serve the new snapshots.
func (s *Store) Save(ctx context.Context, entries []Entry, summary Summary) error {
	chunkRecs := make([]chunkRecord, len(entries))
	vectorRecs := make([]vectorRecord, len(entries))
	for i := range entries {
		e := &entries[i]
		if len(e.Vector) != s.opts.Dimension {
			return fmt.Errorf("chunk %s: %w: expected %d, got %d",
				e.Chunk.ID(), domain.ErrVectorDimMismatch, s.opts.Dimension, len(e.Vector))
		}
		chunkRecs[i] = buildChunkRecord(&e.Chunk)
		vectorRecs[i] = buildVectorRecord(&e.Chunk, e.Vector)
	}

	if err := s.write(ctx, s.paths.Chunks, chunkRecs); err != nil {
		return err
	}
	if err := s.write(ctx, s.paths.Vectors, vectorRecs); err != nil {
		return err
	}
	if s.paths.Stats != "" {
		if err := s.write(ctx, s.paths.Stats, buildStatsRecord(&summary, len(entries))); err != nil {
			return err
		}
	}

	s.logger.Info("corpus snapshots saved",
		zap.Int("chunks", len(entries)),
		zap.String("chunks_path", s.paths.Chunks),
		zap.String("vectors_path", s.paths.Vectors),
	)
	return nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	return nil
}

// Delete removes the persisted snapshots and clears the resident corpus.
func (s *Store) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{s.paths.Chunks, s.paths.Vectors, s.paths.Stats} {
		if key == "" {
			continue
		}
		if err := s.kv.Del(ctx, key); err != nil {
			return fmt.Errorf("delete snapshot %s: %w", key, err)
		}
	}
	s.clear()
	s.state = StateUnloaded
	s.observe("delete", "ok")
	s.logger.Info("corpus deleted")
	return nil
}
