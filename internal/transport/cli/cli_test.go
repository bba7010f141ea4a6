package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/chunkdex/internal/domain"
	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/request"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/result"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
	"github.com/kailas-cloud/chunkdex/internal/segment"
)

// --- Mocks ---

type mockCorpus struct {
	loadErr error
	stats   corpus.Stats
	loads   int
}

func (m *mockCorpus) Load(_ context.Context) error {
	m.loads++
	return m.loadErr
}

func (m *mockCorpus) Stats() (corpus.Stats, error) { return m.stats, nil }

type mockIndexer struct {
	text    string
	summary corpus.Summary
	err     error
	reindex int
	deletes int
}

func (m *mockIndexer) Build(_ context.Context, text string) (corpus.Summary, error) {
	m.text = text
	return m.summary, m.err
}

func (m *mockIndexer) Reindex(_ context.Context) (corpus.Summary, error) {
	m.reindex++
	return m.summary, m.err
}

func (m *mockIndexer) Delete(_ context.Context) error {
	m.deletes++
	return m.err
}

type mockSearcher struct {
	results []result.Result
	err     error
	last    request.Request
}

func (m *mockSearcher) Search(_ context.Context, req *request.Request) ([]result.Result, error) {
	m.last = *req
	return m.results, m.err
}

type testEnv struct {
	corpus   *mockCorpus
	indexer  *mockIndexer
	searcher *mockSearcher
	served   bool
}

func newTestEnv() *testEnv {
	c := chunk.Reconstruct("book_3", "book", "Linked genes are inherited together.", chunk.Metadata{
		Chapter: "Linkage", Section: "Crossing over", Level: 2, Type: chunk.TypeSection, Tags: []string{"linkage"},
	})
	return &testEnv{
		corpus: &mockCorpus{stats: corpus.Stats{TotalChunks: 12, TotalVectors: 12, Chapters: []string{"Heredity", "Linkage"}}},
		indexer: &mockIndexer{summary: corpus.Summary{
			Summary: segment.Summary{
				TotalChunks: 12, TotalCharacters: 4800, AvgChunkSize: 400, Chapters: 2,
				ChunksByLevel: map[int]int{1: 4, 2: 8},
				ChunksByType:  map[chunk.Type]int{chunk.TypeChapter: 4, chunk.TypeSection: 8},
			},
			VectorScheme: "hash-v1",
			Dimension:    2000,
		}},
		searcher: &mockSearcher{results: []result.Result{result.New(c, 0.91)}},
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(func() (*App, error) {
		return &App{
			Corpus:    e.corpus,
			Indexer:   e.indexer,
			Searcher:  e.searcher,
			TopK:      7,
			Threshold: 0.3,
			Serve: func(context.Context) error {
				e.served = true
				return nil
			},
		}, nil
	})
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- Tests ---

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand(nil)
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"build", "index", "search", "stats", "delete", "serve", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd_NeedsNoServices(t *testing.T) {
	root := NewRootCommand(func() (*App, error) {
		return nil, errors.New("must not be called")
	})
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "chunkdex version dev")
}

func TestBuildCmd(t *testing.T) {
	env := newTestEnv()
	path := filepath.Join(t.TempDir(), "book.md")
	require.NoError(t, os.WriteFile(path, []byte("# Heredity\nGenes.\n"), 0o600))

	out, err := env.run(t, "build", path)

	require.NoError(t, err)
	assert.Equal(t, "# Heredity\nGenes.\n", env.indexer.text)
	assert.Contains(t, out, "chunks:        12")
	assert.Contains(t, out, "hash-v1, dimension 2000")
	assert.Contains(t, out, "level 2:       8")
	assert.Contains(t, out, "section:       8")
}

func TestBuildCmd_Errors(t *testing.T) {
	t.Run("requires exactly one arg", func(t *testing.T) {
		_, err := newTestEnv().run(t, "build")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "accepts 1 arg(s)")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := newTestEnv().run(t, "build", filepath.Join(t.TempDir(), "nope.md"))
		assert.ErrorContains(t, err, "read document")
	})

	t.Run("build failure", func(t *testing.T) {
		env := newTestEnv()
		env.indexer.err = errors.New("disk full")
		path := filepath.Join(t.TempDir(), "book.md")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0o600))

		_, err := env.run(t, "build", path)
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("factory failure", func(t *testing.T) {
		root := NewRootCommand(func() (*App, error) { return nil, errors.New("redis down") })
		root.SetArgs([]string{"index"})
		root.SetOut(new(bytes.Buffer))
		assert.ErrorContains(t, root.Execute(), "redis down")
	})
}

func TestIndexCmd(t *testing.T) {
	env := newTestEnv()
	out, err := env.run(t, "index")

	require.NoError(t, err)
	assert.Equal(t, 1, env.indexer.reindex)
	assert.Contains(t, out, "Corpus built:")
}

func TestDeleteCmd(t *testing.T) {
	env := newTestEnv()
	out, err := env.run(t, "delete")

	require.NoError(t, err)
	assert.Equal(t, 1, env.indexer.deletes)
	assert.Contains(t, out, "Corpus deleted.")
}

func TestSearchCmd_Table(t *testing.T) {
	env := newTestEnv()
	out, err := env.run(t, "search", "linked", "genes")

	require.NoError(t, err)
	assert.Equal(t, 1, env.corpus.loads)
	assert.Equal(t, "linked genes", env.searcher.last.Query())
	assert.Contains(t, out, "[1] book_3 (0.910)")
	assert.Contains(t, out, "Linkage > Crossing over")
}

func TestSearchCmd_Defaults(t *testing.T) {
	env := newTestEnv()
	_, err := env.run(t, "search", "genes")

	require.NoError(t, err)
	assert.Equal(t, 7, env.searcher.last.TopK())
	assert.InDelta(t, 0.3, env.searcher.last.Threshold(), 1e-9)
}

func TestSearchCmd_Flags(t *testing.T) {
	env := newTestEnv()
	_, err := env.run(t, "search", "-k", "2", "--threshold", "0.9", "--chapter", "Linkage", "--tag", "linkage", "genes")

	require.NoError(t, err)
	req := env.searcher.last
	assert.Equal(t, 2, req.TopK())
	assert.InDelta(t, 0.9, req.Threshold(), 1e-9)
	assert.Equal(t, "Linkage", req.Filter().Chapter())
	assert.Equal(t, "linkage", req.Filter().Tag())
}

func TestSearchCmd_JSON(t *testing.T) {
	env := newTestEnv()
	out, err := env.run(t, "search", "--json", "genes")
	require.NoError(t, err)

	var items []searchJSONItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "book_3", items[0].ID)
	assert.Equal(t, "Crossing over", items[0].Section)
}

func TestSearchCmd_Context(t *testing.T) {
	env := newTestEnv()
	out, err := env.run(t, "search", "--context", "genes")

	require.NoError(t, err)
	assert.Contains(t, out, "[source 1: Linkage - Crossing over]")
}

func TestSearchCmd_NoResults(t *testing.T) {
	env := newTestEnv()
	env.searcher.results = nil
	out, err := env.run(t, "search", "photosynthesis")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_Errors(t *testing.T) {
	t.Run("requires a query", func(t *testing.T) {
		_, err := newTestEnv().run(t, "search")
		assert.Error(t, err)
	})

	t.Run("load failure", func(t *testing.T) {
		env := newTestEnv()
		env.corpus.loadErr = domain.ErrSnapshotNotFound
		_, err := env.run(t, "search", "genes")
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		_, err := newTestEnv().run(t, "search", "--threshold", "1.5", "genes")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("NaN threshold", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.run(t, "search", "--threshold", "NaN", "genes")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Empty(t, env.searcher.last.Query(), "search must not run")
	})

	t.Run("unavailable", func(t *testing.T) {
		env := newTestEnv()
		env.searcher.err = domain.ErrIndexUnavailable
		_, err := env.run(t, "search", "genes")
		assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	})
}

func TestStatsCmd(t *testing.T) {
	env := newTestEnv()
	out, err := env.run(t, "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Chunks:   12")
	assert.Contains(t, out, "Chapters: 2")
	assert.Contains(t, out, "  Linkage")
	assert.NotContains(t, out, "fallback")
}

func TestStatsCmd_Fallback(t *testing.T) {
	env := newTestEnv()
	env.corpus.stats = corpus.Stats{Fallback: true}
	out, err := env.run(t, "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "fallback")
}

func TestServeCmd(t *testing.T) {
	env := newTestEnv()
	_, err := env.run(t, "serve")

	require.NoError(t, err)
	assert.True(t, env.served)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b", snippet("a\n  b", 10))
	assert.Equal(t, "基因连...", snippet("基因连锁", 3))
}
