package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/notewell/curator/internal/cmd/globals"
	"github.com/notewell/curator/pkg/logging"
)

// NewLogger creates a configured logger from the application configuration
// and global flags. Log level precedence (highest to lowest):
//  1. --log-level flag / LOG_LEVEL environment variable
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. Default (info)
func NewLogger(config *Config, flags *globals.Flags) zerolog.Logger {
	logConfig := &logging.Config{
		Level:   determineLogLevel(config, flags),
		Format:  config.LogFormat,
		Output:  config.LogOutput,
		NoColor: flags.NoColor,
	}
	logConfig.AddCaller = logConfig.Level == "debug" || logConfig.Level == "trace"

	return logging.NewLoggerFromConfig(logConfig)
}

// determineLogLevel determines the log level using the precedence rules.
func determineLogLevel(config *Config, flags *globals.Flags) string {
	if config.LogLevel != "" {
		validated := validateLogLevel(config.LogLevel)
		if validated != config.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, validated)
		}
		return validated
	}

	if flags.Verbose && flags.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if flags.Verbose {
		return "debug"
	}
	if flags.Quiet {
		return "warn"
	}

	return "info"
}

// validateLogLevel validates a log level string, falling back to "info".
func validateLogLevel(level string) string {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if validLevels[level] {
		return level
	}
	return "info"
}
