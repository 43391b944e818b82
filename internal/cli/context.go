// Package cli provides the command-line interface for the quotes application.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/law-makers/quotes/internal/app"
)

// currentApp is the Application of the running command. Commands run one at
// a time, so a single slot is enough.
var currentApp *app.Application

// SetApp stores the Application for the running command; nil clears it
func SetApp(_ *cobra.Command, a *app.Application) {
	currentApp = a
}

// GetApp returns the Application of the running command
func GetApp() *app.Application {
	return currentApp
}

// GetAppFromCmd returns the Application for cmd, or nil before initialization
func GetAppFromCmd(cmd *cobra.Command) *app.Application {
	return currentApp
}
