// internal/cli/run.go
package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/quotes/internal/config"
	"github.com/law-makers/quotes/internal/feed"
)

var (
	recrawl    bool
	runShowTag string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Crawl if needed, load the feed and print an inspirational quote",
	Long: `Runs the whole pipeline:
- crawls the site when the feed does not exist yet (or with --recrawl)
- recreates the database from the feed
- prints the first quote tagged "inspirational"`,
	Example: `  # Reuse an existing feed
  quotes run

  # Always crawl first, with CSS selectors
  quotes run --recrawl --strategy css`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addCrawlFlags(runCmd)
	runCmd.Flags().BoolVar(&recrawl, "recrawl", false, "Crawl even if the feed already exists")
	runCmd.Flags().StringVar(&runShowTag, "show-tag", config.DefaultInspireTag, "Tag of the quote printed at the end")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	a := GetApp()
	ctx := cmd.Context()
	path := a.Config.FeedPath
	w := cmd.ErrOrStderr()

	if recrawl || !feed.Exists(path) {
		records, stats, err := crawlToFeed(ctx, a, path)
		if err != nil {
			return err
		}
		printCrawlSummary(w, path, len(records), stats)
	} else {
		log.Info().Str("feed", path).Msg("Feed exists, skipping crawl")
	}

	summary, err := loadFeed(ctx, a, path)
	if err != nil {
		return err
	}
	printLoadSummary(w, a.Config.DBPath, summary)

	s, err := a.OpenStore(false)
	if err != nil {
		return err
	}
	defer s.Close()
	return printFirstQuote(cmd, s, runShowTag)
}
