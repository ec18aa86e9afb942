// Package app provides the application context for the curator CLI:
// configuration, logging, and construction of the per-run API clients.
package app

import (
	"github.com/rs/zerolog"

	"github.com/notewell/curator/internal/cmd/globals"
	"github.com/notewell/curator/internal/jira"
	"github.com/notewell/curator/internal/trilium"
	"github.com/notewell/curator/pkg/errors"
)

// App holds the curator application's dependencies. Commands receive it
// through the cmd.AppContext interface.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	config *Config
	flags  *globals.Flags
	logger *zerolog.Logger
}

// New creates an App with the given version information and loads the
// configuration.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		flags:   &globals.Flags{},
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config, app.flags)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Flags returns the parsed global flags.
func (a *App) Flags() *globals.Flags {
	return a.flags
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Queries returns the JQL queries to fetch.
func (a *App) Queries() []string {
	return a.config.Queries
}

// Jira constructs the issue source client. The client is scoped to one run;
// the caller closes it on every exit path.
func (a *App) Jira() (*jira.Client, error) {
	if a.config.JiraURL == "" {
		return nil, &errors.ConfigError{Component: "jira", Message: "JIRA_URL is not set"}
	}
	if a.config.JiraToken == "" {
		return nil, &errors.ConfigError{Component: "jira", Message: "JIRA_TOKEN is not set", Err: errors.ErrTokenRequired}
	}
	return jira.NewClient(a.config.JiraURL, a.config.JiraToken), nil
}

// Notes constructs the notes server client, scoped like Jira.
func (a *App) Notes() (*trilium.Client, error) {
	if a.config.TriliumURL == "" {
		return nil, &errors.ConfigError{Component: "trilium", Message: "TRILIUM_URL is not set"}
	}
	if a.config.TriliumToken == "" {
		return nil, &errors.ConfigError{Component: "trilium", Message: "TRILIUM_TOKEN is not set", Err: errors.ErrTokenRequired}
	}
	return trilium.NewClient(a.config.TriliumURL, a.config.TriliumToken), nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
