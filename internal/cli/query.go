// internal/cli/query.go
package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/quotes/internal/config"
	"github.com/law-makers/quotes/internal/store"
	"github.com/law-makers/quotes/internal/ui"
)

var (
	queryTag   string
	queryLimit int
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the stored quotes carrying a tag",
	Example: `  # First inspirational quote
  quotes query

  # Every quote tagged "love"
  quotes query --tag love --limit 0`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&queryTag, "tag", "t", config.DefaultInspireTag, "Tag to look up")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 1, "Maximum quotes to print (0 = all)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	a := GetApp()
	s, err := a.OpenStore(false)
	if err != nil {
		return err
	}
	defer s.Close()

	quotes, err := s.QuotesByTag(cmd.Context(), queryTag, queryLimit)
	if err != nil {
		return err
	}
	if len(quotes) == 0 {
		return fmt.Errorf("%w: no quote tagged %q in %s", store.ErrNotFound, queryTag, a.Config.DBPath)
	}

	w := cmd.OutOrStdout()
	if a.Config.JSONLog {
		return json.NewEncoder(w).Encode(quotes)
	}
	for _, q := range quotes {
		fmt.Fprintln(w, q)
	}
	return nil
}

// printFirstQuote prints the first quote carrying tag, as the end-to-end run
// does. A missing match is reported on stderr so stdout only carries quotes.
func printFirstQuote(cmd *cobra.Command, s *store.Store, tag string) error {
	quote, err := s.FirstQuoteByTag(cmd.Context(), tag)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Info(fmt.Sprintf("No quote tagged %q", tag)))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), quote)
	return nil
}
