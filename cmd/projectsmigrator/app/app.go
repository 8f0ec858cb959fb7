// Package app provides the application context for the projectsmigrator
// CLI: configuration loading, logger setup and the root command.
package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/pretagov/projectsmigrator/pkg/errors"
)

// App is the projectsmigrator application with its dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger
}

// New creates an App with the given version information and loads
// configuration from the environment.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(config)
	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
		logger:  &logger,
	}, nil
}

// Version returns the version string.
func (a *App) Version() string { return a.version }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// ExitOnError prints the error and exits. Authentication and other
// fatal setup failures exit with status 2 so scripts can tell them
// apart from partial runs.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.IsFatal(err) {
		os.Exit(2)
	}
	os.Exit(1)
}
