// Package app wires configuration, logging, and the cobra command tree of
// the channelsync CLI.
package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/rendizy/channelsync/pkg/logging"
)

// App is the channelsync CLI application.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger zerolog.Logger
}

// New creates the application, loading configuration from env, .env files,
// and the config file.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
	}
	a.setupLogger()
	return a, nil
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return &a.logger
}

// setupLogger configures the process-wide logger from the loaded config.
func (a *App) setupLogger() {
	var logger zerolog.Logger
	switch a.config.LogFormat {
	case "json":
		logger = logging.NewJSON(os.Stderr)
	case "console":
		logger = logging.NewConsole()
	default:
		logger = logging.New(os.Stderr)
	}

	if level, err := zerolog.ParseLevel(a.config.LogLevel); err == nil && a.config.LogLevel != "" {
		logger = logger.Level(level)
	}
	if a.config.Verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}
	if a.config.Quiet {
		logger = logger.Level(zerolog.WarnLevel)
	}

	logging.SetDefault(logger)
	a.logger = logger
}

// ExitOnError prints the error and exits with a non-zero status.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
