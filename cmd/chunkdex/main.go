package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chunkdex/internal/config"
	"github.com/kailas-cloud/chunkdex/internal/db"
	dbFile "github.com/kailas-cloud/chunkdex/internal/db/file"
	dbRedis "github.com/kailas-cloud/chunkdex/internal/db/redis"
	logpkg "github.com/kailas-cloud/chunkdex/internal/logger"
	"github.com/kailas-cloud/chunkdex/internal/metrics"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
	"github.com/kailas-cloud/chunkdex/internal/segment"
	chiTransport "github.com/kailas-cloud/chunkdex/internal/transport/chi"
	"github.com/kailas-cloud/chunkdex/internal/transport/cli"
	healthuc "github.com/kailas-cloud/chunkdex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/chunkdex/internal/usecase/index"
	searchuc "github.com/kailas-cloud/chunkdex/internal/usecase/search"
	"github.com/kailas-cloud/chunkdex/internal/vectorize"
	"github.com/kailas-cloud/chunkdex/internal/version"
	"github.com/kailas-cloud/chunkdex/internal/watch"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	c := &composition{env: config.GetEnv()}
	root := cli.NewRootCommand(c.build)
	err := root.ExecuteContext(context.Background())
	c.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// composition is the composition root. It is assembled on first use so that
// commands like version run without config or storage.
type composition struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  db.Store
	files  *dbFile.Store

	corpus *corpus.Store
	search *searchuc.Service
	health *healthuc.Service
}

func (c *composition) build() (*cli.App, error) {
	cfg, err := config.Load(c.env)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg

	logger, err := logpkg.NewLogger(c.env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	c.logger = logger

	metrics.RegisterCorpusMetrics()

	if err := c.openStore(); err != nil {
		return nil, err
	}

	hasher, err := vectorize.New(cfg.Embedding.Dimension)
	if err != nil {
		return nil, err
	}
	seg, err := segment.New(segment.Config{
		MinChunkSize: cfg.Segment.MinChunkSize,
		MaxChunkSize: cfg.Segment.MaxChunkSize,
		DocumentID:   cfg.Corpus.DocumentID,
	})
	if err != nil {
		return nil, err
	}

	c.corpus = corpus.New(c.store, corpus.Paths{
		Chunks:  cfg.Corpus.ChunksPath,
		Vectors: cfg.Corpus.VectorsPath,
		Stats:   cfg.Corpus.StatsPath,
	}, corpus.Options{
		Dimension:  cfg.Embedding.Dimension,
		Fallback:   cfg.Corpus.Fallback,
		DocumentID: cfg.Corpus.DocumentID,
		Logger:     logger,
	})
	c.search = searchuc.New(c.corpus, hasher)
	c.health = healthuc.New(c.corpus, c.store)

	return &cli.App{
		Corpus:    c.corpus,
		Indexer:   indexuc.New(c.corpus, seg, hasher, logger),
		Searcher:  c.search,
		Serve:     c.serve,
		TopK:      cfg.Retrieval.TopK,
		Threshold: cfg.Threshold(),
	}, nil
}

func (c *composition) openStore() error {
	switch c.cfg.Storage.Driver {
	case config.DriverRedis:
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     c.cfg.Storage.Addrs,
			Password:  c.cfg.Storage.Password,
			KeyPrefix: c.cfg.Storage.KeyPrefix,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis store: %w", err)
		}
		c.store = rs

		timeout := time.Duration(c.cfg.Storage.ReadinessTimeout) * time.Second
		if err := rs.WaitForReady(context.Background(), timeout); err != nil {
			return fmt.Errorf("redis not ready: %w", err)
		}
		c.logger.Debug("Connected to redis", zap.Strings("addrs", c.cfg.Storage.Addrs))
	default:
		c.files = dbFile.NewStore("")
		c.store = c.files
	}
	return nil
}

func (c *composition) close() {
	if c.store != nil {
		c.store.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

// serve loads the corpus and runs the HTTP API until ctx is canceled.
func (c *composition) serve(ctx context.Context) error {
	cfg, logger := c.cfg, c.logger

	logger.Info("Starting chunkdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", c.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// An unavailable corpus still serves: /health reports it and /reload can recover.
	if err := c.corpus.Load(ctx); err != nil {
		logger.Error("Corpus not loaded", zap.Error(err))
	}

	if cfg.Corpus.Watch && c.files != nil {
		w := watch.New(c.corpus, []string{
			c.files.Path(cfg.Corpus.ChunksPath),
			c.files.Path(cfg.Corpus.VectorsPath),
		}, time.Duration(cfg.Corpus.WatchDebounceMs)*time.Millisecond, logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("Snapshot watcher stopped", zap.Error(err))
			}
		}()
	}

	server := chiTransport.NewServer(c.search, c.corpus, c.health, logger).
		WithDefaults(cfg.Retrieval.TopK, cfg.Threshold())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}
