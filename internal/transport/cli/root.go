// Package cli implements the chunkdex command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/chunkdex/internal/domain/search/request"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/result"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
)

// Corpus is the corpus store as used by the CLI.
type Corpus interface {
	Load(ctx context.Context) error
	Stats() (corpus.Stats, error)
}

// Indexer builds and clears the persisted corpus.
type Indexer interface {
	Build(ctx context.Context, text string) (corpus.Summary, error)
	Reindex(ctx context.Context) (corpus.Summary, error)
	Delete(ctx context.Context) error
}

// Searcher runs similarity searches.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

// App holds the services commands run against.
type App struct {
	Corpus   Corpus
	Indexer  Indexer
	Searcher Searcher
	// Serve runs the HTTP server until ctx is canceled.
	Serve func(ctx context.Context) error
	// Defaults for search flags.
	TopK      int
	Threshold float64
}

// AppFactory builds the App on first use, so that commands like version run
// without touching storage. The caller owns the App's resources.
type AppFactory func() (*App, error)

var errNotConfigured = errors.New("service not configured")

type runner struct {
	factory AppFactory
	app     *App
}

func (r *runner) get() (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	if r.factory == nil {
		return nil, errNotConfigured
	}
	app, err := r.factory()
	if err != nil {
		return nil, err
	}
	r.app = app
	return app, nil
}

// NewRootCommand assembles the chunkdex command tree.
func NewRootCommand(factory AppFactory) *cobra.Command {
	r := &runner{factory: factory}

	root := &cobra.Command{
		Use:   "chunkdex",
		Short: "Textbook chunk retrieval engine",
		Long: `chunkdex segments a markdown textbook into hierarchical chunks,
vectorizes them with feature hashing and answers top-K cosine similarity queries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBuildCmd(r),
		newIndexCmd(r),
		newSearchCmd(r),
		newStatsCmd(r),
		newDeleteCmd(r),
		newServeCmd(r),
		newVersionCmd(),
	)
	return root
}
