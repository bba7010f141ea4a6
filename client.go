package chunkdex

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chunkdex/internal/db"
	dbFile "github.com/kailas-cloud/chunkdex/internal/db/file"
	dbRedis "github.com/kailas-cloud/chunkdex/internal/db/redis"
	"github.com/kailas-cloud/chunkdex/internal/domain"
	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/request"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/result"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
	"github.com/kailas-cloud/chunkdex/internal/segment"
	indexuc "github.com/kailas-cloud/chunkdex/internal/usecase/index"
	searchuc "github.com/kailas-cloud/chunkdex/internal/usecase/search"
	"github.com/kailas-cloud/chunkdex/internal/vectorize"
)

const (
	driverFile  = "file"
	driverRedis = "redis"

	defaultReadinessTimeout = 10 * time.Second
)

// Internal interfaces, replaced in tests.
type corpusStore interface {
	Load(ctx context.Context) error
	Reload(ctx context.Context) error
	Stats() (corpus.Stats, error)
	Chunk(id string) (chunk.Chunk, error)
}

type indexUseCase interface {
	Build(ctx context.Context, text string) (corpus.Summary, error)
	Delete(ctx context.Context) error
}

type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

// Client is the chunkdex SDK entry point.
type Client struct {
	store     db.Store
	corpus    corpusStore
	indexSvc  indexUseCase
	searchSvc searchUseCase
}

// New creates a Client. With WithRedis the provided context bounds the
// initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:       driverFile,
		prefix:       "chunkdex:",
		chunksKey:    "chunks.json",
		vectorsKey:   "vectors.json",
		statsKey:     "stats.json",
		documentID:   "textbook",
		dimension:    domain.DefaultVectorConfig().Dimensions,
		minChunkSize: segment.DefaultMinChunkSize,
		maxChunkSize: segment.DefaultMaxChunkSize,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverFile:
		return dbFile.NewStore(cfg.dir), nil
	case driverRedis:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, fmt.Errorf("chunkdex: redis address is required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Password:  cfg.password,
			KeyPrefix: cfg.prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("chunkdex: connect: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("chunkdex: wait for ready: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("chunkdex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	hasher, err := vectorize.New(cfg.dimension)
	if err != nil {
		return nil, fmt.Errorf("chunkdex: %w", err)
	}
	seg, err := segment.New(segment.Config{
		MinChunkSize: cfg.minChunkSize,
		MaxChunkSize: cfg.maxChunkSize,
		DocumentID:   cfg.documentID,
	})
	if err != nil {
		return nil, fmt.Errorf("chunkdex: %w", err)
	}
	if cfg.chunksKey == "" || cfg.vectorsKey == "" {
		return nil, fmt.Errorf("chunkdex: chunks and vectors snapshot names are required")
	}

	cs := corpus.New(store, corpus.Paths{
		Chunks:  cfg.chunksKey,
		Vectors: cfg.vectorsKey,
		Stats:   cfg.statsKey,
	}, corpus.Options{
		Dimension:  cfg.dimension,
		Fallback:   cfg.fallback,
		DocumentID: cfg.documentID,
		Logger:     cfg.logger,
	})

	return &Client{
		store:     store,
		corpus:    cs,
		indexSvc:  indexuc.New(cs, seg, hasher, cfg.logger),
		searchSvc: searchuc.New(cs, hasher),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks storage connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Build segments and vectorizes text, persists the snapshots and reloads the
// in-memory corpus so the result is searchable right away.
func (c *Client) Build(ctx context.Context, text string) (Summary, error) {
	s, err := c.indexSvc.Build(ctx, text)
	if err != nil {
		return Summary{}, fmt.Errorf("build: %w", err)
	}
	if err := c.corpus.Reload(ctx); err != nil {
		return Summary{}, fmt.Errorf("reload after build: %w", err)
	}
	return summaryFromCorpus(&s), nil
}

// Load reads the persisted snapshots into memory.
func (c *Client) Load(ctx context.Context) error {
	if err := c.corpus.Load(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// Reload clears the in-memory corpus and reads the snapshots again. On failure
// searches return ErrIndexUnavailable until the next successful load.
func (c *Client) Reload(ctx context.Context) error {
	if err := c.corpus.Reload(ctx); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

// Delete removes the persisted snapshots and clears the in-memory corpus.
func (c *Client) Delete(ctx context.Context) error {
	if err := c.indexSvc.Delete(ctx); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Chunk returns one chunk by id.
func (c *Client) Chunk(id string) (Chunk, error) {
	ch, err := c.corpus.Chunk(id)
	if err != nil {
		return Chunk{}, fmt.Errorf("get chunk: %w", err)
	}
	return chunkFromDomain(&ch), nil
}

// Stats returns corpus counts.
func (c *Client) Stats() (Stats, error) {
	st, err := c.corpus.Stats()
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return Stats{
		TotalChunks:  st.TotalChunks,
		TotalVectors: st.TotalVectors,
		Chapters:     st.Chapters,
		Fallback:     st.Fallback,
	}, nil
}

// Search starts a similarity query.
func (c *Client) Search(query string) *SearchBuilder {
	return &SearchBuilder{
		svc:       c.searchSvc,
		query:     query,
		topK:      request.DefaultTopK,
		threshold: request.DefaultThreshold,
	}
}
