// internal/cli/load.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/law-makers/quotes/internal/app"
	"github.com/law-makers/quotes/internal/feed"
	"github.com/law-makers/quotes/internal/loader"
	"github.com/law-makers/quotes/internal/reqctx"
	"github.com/law-makers/quotes/internal/ui"
	"github.com/law-makers/quotes/pkg/models"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Recreate the database and load the JSON feed into it",
	Long: `Deletes the database file, creates the authors, quotes, tags and
tagged_quotes tables and loads every record of the feed.

Quotes whose author has no profile in the feed are stored with author id -1.`,
	Example: `  # Load the default feed into quote.db
  quotes load

  # Load a custom feed into a custom database
  quotes load --feed data/feed.json --db data/quotes.db`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")
}

func runLoad(cmd *cobra.Command, args []string) error {
	a := GetApp()
	summary, err := loadFeed(cmd.Context(), a, a.Config.FeedPath)
	if err != nil {
		return err
	}
	printLoadSummary(cmd.OutOrStdout(), a.Config.DBPath, summary)
	return nil
}

// loadFeed reads the feed at path into a freshly recreated store
func loadFeed(ctx context.Context, a *app.Application, path string) (loader.Summary, error) {
	records, err := feed.Read(path)
	if err != nil {
		return loader.Summary{}, err
	}

	s, err := a.OpenStore(true)
	if err != nil {
		return loader.Summary{}, err
	}
	defer s.Close()

	quotes := 0
	for _, rec := range records {
		if rec.Type == models.TypeQuote {
			quotes++
		}
	}
	bar := newProgress(quotes, "loading", !noProgress && !a.Config.JSONLog)
	defer bar.Finish()

	summary, err := loader.Load(reqctx.WithRun(ctx, "loader"), s, records, bar)
	if err != nil {
		return summary, fmt.Errorf("load failed: %w", err)
	}
	return summary, nil
}

func printLoadSummary(w io.Writer, dbPath string, s loader.Summary) {
	fmt.Fprintf(w, "%s Loaded %d quotes, %d authors and %d tags into %s\n",
		ui.Success("✓"), s.Quotes, s.Authors, s.Tags, ui.Bold(dbPath))
	fmt.Fprintf(w, "  %s\n", ui.Info(fmt.Sprintf("%d tag links", s.TaggedQuotes)))
	if s.UnmatchedAuthors > 0 {
		fmt.Fprintf(w, "  %s\n", ui.Error(fmt.Sprintf("%d quotes have no author profile (author id %d)", s.UnmatchedAuthors, loader.UnknownAuthorID)))
	}
}
