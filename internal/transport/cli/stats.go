package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/chunkdex/internal/version"
)

func newStatsCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show corpus statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.get()
			if err != nil {
				return err
			}
			if err := app.Corpus.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}
			st, err := app.Corpus.Stats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Chunks:   %d\n", st.TotalChunks)
			fmt.Fprintf(out, "Vectors:  %d\n", st.TotalVectors)
			fmt.Fprintf(out, "Chapters: %d\n", len(st.Chapters))
			if len(st.Chapters) > 0 {
				fmt.Fprintf(out, "  %s\n", strings.Join(st.Chapters, "\n  "))
			}
			if st.Fallback {
				fmt.Fprintln(out, "Mode:     fallback (empty corpus)")
			}
			return nil
		},
	}
}

func newServeCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP retrieval API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.get()
			if err != nil {
				return err
			}
			if app.Serve == nil {
				return errNotConfigured
			}
			ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx)
		},
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chunkdex version %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
