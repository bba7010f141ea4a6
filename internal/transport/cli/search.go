package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/chunkdex/internal/domain/search/filter"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/request"
	"github.com/kailas-cloud/chunkdex/internal/domain/search/result"
)

type searchFlags struct {
	topK      int
	threshold float64
	chapter   string
	tag       string
	json      bool
	context   bool
}

// searchJSONItem is one result in --json output.
type searchJSONItem struct {
	ID         string   `json:"id"`
	Score      float64  `json:"score"`
	Chapter    string   `json:"chapter"`
	Section    string   `json:"section,omitempty"`
	Subsection string   `json:"subsection,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Content    string   `json:"content"`
}

func newSearchCmd(r *runner) *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the corpus",
		Long: `Vectorizes the query and ranks every chunk by cosine similarity.
Results below the threshold are dropped; at most top-k are shown.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.get()
			if err != nil {
				return err
			}
			if err := app.Corpus.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}

			topK := app.TopK
			if cmd.Flags().Changed("top-k") {
				topK = f.topK
			}
			threshold := app.Threshold
			if cmd.Flags().Changed("threshold") {
				threshold = f.threshold
			}

			req, err := request.New(strings.Join(args, " "), topK, threshold, filter.New(f.chapter, f.tag))
			if err != nil {
				return err
			}
			results, err := app.Searcher.Search(cmd.Context(), &req)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			switch {
			case f.json:
				return outputSearchJSON(cmd, results)
			case f.context:
				fmt.Fprintln(cmd.OutOrStdout(), result.BuildContext(results))
				return nil
			default:
				outputSearchTable(cmd, results)
				return nil
			}
		},
	}

	cmd.Flags().IntVarP(&f.topK, "top-k", "k", request.DefaultTopK, "maximum number of results")
	cmd.Flags().Float64VarP(&f.threshold, "threshold", "t", request.DefaultThreshold, "minimum cosine similarity")
	cmd.Flags().StringVar(&f.chapter, "chapter", "", "only search this chapter")
	cmd.Flags().StringVar(&f.tag, "tag", "", "only search chunks with this tag")
	cmd.Flags().BoolVar(&f.json, "json", false, "output results as JSON")
	cmd.Flags().BoolVar(&f.context, "context", false, "output the rendered retrieval context")
	return cmd
}

func outputSearchJSON(cmd *cobra.Command, results []result.Result) error {
	items := make([]searchJSONItem, len(results))
	for i := range results {
		c := results[i].Chunk()
		items[i] = searchJSONItem{
			ID:         c.ID(),
			Score:      results[i].Score(),
			Chapter:    c.Chapter(),
			Section:    c.Section(),
			Subsection: c.Subsection(),
			Tags:       c.Tags(),
			Content:    c.Content(),
		}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []result.Result) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return
	}

	fmt.Fprintln(out, "Results:")
	fmt.Fprintln(out)
	for i := range results {
		c := results[i].Chunk()
		heading := c.Chapter()
		if c.Section() != "" {
			heading += " > " + c.Section()
		}
		if c.Subsection() != "" {
			heading += " > " + c.Subsection()
		}

		fmt.Fprintf(out, "  [%d] %s (%.3f)\n", i+1, c.ID(), results[i].Score())
		fmt.Fprintf(out, "      %s\n", heading)
		fmt.Fprintf(out, "      %s\n", snippet(c.Content(), 120))
		fmt.Fprintln(out)
	}
}

// snippet returns the first n runes of s on one line.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
