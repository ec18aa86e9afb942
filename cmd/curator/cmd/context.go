// Package cmd implements the curator subcommands. Commands depend on the
// application shell only through the AppContext interface.
package cmd

import (
	"github.com/rs/zerolog"

	"github.com/notewell/curator/internal/cmd/globals"
	"github.com/notewell/curator/internal/jira"
	"github.com/notewell/curator/internal/trilium"
)

// AppContext is the dependency contract commands require from the
// application. cmd/curator/app.App implements it.
type AppContext interface {
	// Version information
	Version() string
	Commit() string
	Date() string

	// Logger returns the application logger.
	Logger() *zerolog.Logger

	// Flags returns the parsed global flags.
	Flags() *globals.Flags

	// Queries returns the JQL queries to fetch.
	Queries() []string

	// Jira constructs the issue source client; the command closes it.
	Jira() (*jira.Client, error)

	// Notes constructs the notes server client; the command closes it.
	Notes() (*trilium.Client, error)
}
