// internal/cli/crawl.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/quotes/internal/app"
	"github.com/law-makers/quotes/internal/feed"
	"github.com/law-makers/quotes/internal/ui"
	"github.com/law-makers/quotes/internal/utils/headers"
	"github.com/law-makers/quotes/pkg/models"
)

var (
	crawlTag      string
	crawlMaxPages int
	crawlHeaders  []string
	crawlOutput   string
	noProgress    bool
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the quotes site and write the JSON feed",
	Long: `Visits every listing page of the site, follows the author links and writes
one record per quote and per author to the feed.

Strategies:
- css: CSS selectors
- xpath: XPath expressions
- script: evaluates the inline script of the /js/ variant of the site`,
	Example: `  # Crawl with the default strategy
  quotes crawl

  # Only quotes tagged "love", with CSS selectors
  quotes crawl --tag love --strategy css

  # First two listing pages into a custom feed
  quotes crawl --max-pages 2 -o data/feed.json

  # Add custom headers
  quotes crawl -H "Accept-Language: en"`,
	Args: cobra.NoArgs,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	addCrawlFlags(crawlCmd)
	crawlCmd.Flags().StringVarP(&crawlOutput, "output", "o", "", "Feed path (overrides --feed)")
}

// addCrawlFlags registers the flags shared by crawl and run
func addCrawlFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("strategy", "s", "", "Selector strategy: css, xpath or script (default from config)")
	cmd.Flags().StringVarP(&crawlTag, "tag", "t", "", "Only crawl quotes with this tag")
	cmd.Flags().IntVar(&crawlMaxPages, "max-pages", 0, "Maximum listing pages to visit (0 = all)")
	cmd.Flags().StringArrayVarP(&crawlHeaders, "header", "H", []string{}, "Custom headers (e.g., -H \"Accept-Language: en\")")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")
}

func runCrawl(cmd *cobra.Command, args []string) error {
	a := GetApp()
	path := a.Config.FeedPath
	if crawlOutput != "" {
		path = crawlOutput
	}

	records, stats, err := crawlToFeed(cmd.Context(), a, path)
	if err != nil {
		return err
	}
	printCrawlSummary(cmd.OutOrStdout(), path, len(records), stats)
	return nil
}

// crawlToFeed runs a spider built from the crawl flags and writes its records to path
func crawlToFeed(ctx context.Context, a *app.Application, path string) ([]models.Record, models.Stats, error) {
	bar := newProgress(-1, "crawling", !noProgress && !a.Config.JSONLog)
	defer bar.Finish()

	s, err := a.NewSpider(app.CrawlOptions{
		Strategy: a.Config.Strategy,
		Tag:      crawlTag,
		MaxPages: crawlMaxPages,
		Headers:  headers.ParseHeaders(crawlHeaders),
		OnRecord: func(models.Record) { bar.Add(1) },
	})
	if err != nil {
		return nil, models.Stats{}, err
	}

	log.Info().Str("spider", s.Name()).Str("start_url", s.StartURL()).Str("feed", path).Msg("Starting crawl")
	records, stats, err := s.Run(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("crawl failed: %w", err)
	}

	if err := feed.Write(path, records); err != nil {
		return nil, stats, fmt.Errorf("failed to write feed: %w", err)
	}
	return records, stats, nil
}

func printCrawlSummary(w io.Writer, path string, records int, stats models.Stats) {
	fmt.Fprintf(w, "%s Wrote %d records (%d quotes, %d authors) to %s\n",
		ui.Success("✓"), records, stats.Quotes, stats.Authors, ui.Bold(path))
	fmt.Fprintf(w, "  %s\n", ui.Info(fmt.Sprintf("%d listing pages, %d author pages", stats.ListingPages, stats.AuthorPages)))
	if stats.Failed > 0 {
		fmt.Fprintf(w, "  %s\n", ui.Error(fmt.Sprintf("%d pages failed, see the log for details", stats.Failed)))
	}
}
