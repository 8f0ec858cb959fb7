package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pretagov/projectsmigrator/pkg/logging"
)

// NewLogger creates a configured logger and installs it as the package
// default so library code logs through the same sink.
//
// Log level precedence, highest to lowest:
//  1. --log-level flag
//  2. -v/--verbose flag (debug)
//  3. -q/--quiet flag (warn)
//  4. LOG_LEVEL environment variable
//  5. info
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}

	var writer io.Writer = os.Stderr
	if config.LogFormat != "json" && stderrIsTerminal() {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    config.NoColor || os.Getenv("NO_COLOR") != "",
		}
	}

	zerolog.SetGlobalLevel(parsed)
	logger := zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
	if parsed <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	logging.SetDefault(logger)
	return logger
}

// determineLogLevel resolves the level from flags and environment.
func determineLogLevel(config *Config) string {
	if config.LogLevel != "" {
		return validateLogLevel(config.LogLevel)
	}
	if config.Verbose && config.Quiet {
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}
	return "info"
}

// validateLogLevel returns a valid level, falling back to info.
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using \"info\"\n", level)
	return "info"
}

// stderrIsTerminal reports whether stderr is attached to a terminal.
func stderrIsTerminal() bool {
	info, err := os.Stderr.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
