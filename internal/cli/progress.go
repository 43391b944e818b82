package cli

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// newProgress returns a progress bar on stderr. max < 0 renders a spinner
// for work of unknown size. A hidden bar still counts.
func newProgress(max int, description string, visible bool) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(visible),
	)
}
