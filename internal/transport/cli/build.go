package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/chunkdex/internal/domain/chunk"
	"github.com/kailas-cloud/chunkdex/internal/repository/corpus"
)

func newBuildCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "build [markdown]",
		Short: "Segment a document and write corpus snapshots",
		Long: `Segments a markdown document into chunks, vectorizes every chunk and
writes the chunks, vectors and stats snapshots.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.get()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Segmenting %s (%d bytes)...\n", args[0], len(data))
			summary, err := app.Indexer.Build(cmd.Context(), string(data))
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
			printSummary(cmd, &summary)
			return nil
		},
	}
}

func newIndexCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Regenerate vectors from the chunks snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.get()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Re-vectorizing chunks snapshot...")
			summary, err := app.Indexer.Reindex(cmd.Context())
			if err != nil {
				return fmt.Errorf("index failed: %w", err)
			}
			printSummary(cmd, &summary)
			return nil
		},
	}
}

func newDeleteCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the persisted corpus snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.get()
			if err != nil {
				return err
			}
			if err := app.Indexer.Delete(cmd.Context()); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Corpus deleted.")
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, s *corpus.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Corpus built:")
	fmt.Fprintf(out, "  chunks:        %d\n", s.TotalChunks)
	fmt.Fprintf(out, "  characters:    %d\n", s.TotalCharacters)
	fmt.Fprintf(out, "  avg chunk:     %d\n", s.AvgChunkSize)
	fmt.Fprintf(out, "  chapters:      %d\n", s.Chapters)
	fmt.Fprintf(out, "  sections:      %d\n", s.Sections)
	fmt.Fprintf(out, "  subsections:   %d\n", s.Subsections)
	fmt.Fprintf(out, "  vectors:       %s, dimension %d\n", s.VectorScheme, s.Dimension)

	levels := make([]int, 0, len(s.ChunksByLevel))
	for l := range s.ChunksByLevel {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	for _, l := range levels {
		fmt.Fprintf(out, "  level %d:       %d\n", l, s.ChunksByLevel[l])
	}
	for _, t := range []chunk.Type{chunk.TypeChapter, chunk.TypeSection, chunk.TypeContent} {
		fmt.Fprintf(out, "  %-14s %d\n", string(t)+":", s.ChunksByType[t])
	}
}
