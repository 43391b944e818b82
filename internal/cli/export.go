// internal/cli/export.go
package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/quotes/internal/ui"
	"github.com/law-makers/quotes/internal/utils/output"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored quotes as JSON, CSV, Markdown or HTML",
	Long: `Writes every stored quote with its author and tags. The format is taken
from --format, or guessed from the output file extension.`,
	Example: `  # CSV spreadsheet
  quotes export -o quotes.csv

  # GitHub flavored Markdown table
  quotes export --format md -o QUOTES.md`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export format: "+strings.Join(output.Formats, ", "))
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "File path to save the export")
	exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	a := GetApp()
	format := exportFormat
	if format == "" {
		format = output.FormatFromPath(exportOutput)
	}
	if err := output.CheckFormat(format); err != nil {
		return err
	}

	s, err := a.OpenStore(false)
	if err != nil {
		return err
	}
	defer s.Close()

	quotes, err := s.Quotes(cmd.Context())
	if err != nil {
		return err
	}
	if err := output.Save(format, quotes, a.Config.BaseURL, exportOutput); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	log.Info().Str("file", exportOutput).Str("format", format).Int("quotes", len(quotes)).Msg("Export saved")
	fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %d quotes to %s\n", ui.Success("✓"), len(quotes), ui.Bold(exportOutput))
	return nil
}
