package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/refcanon/refcanon/pkg/logging"
)

// SetupLogger configures the default logger from the application
// configuration. Level precedence: explicit LOG_LEVEL, then
// -v/--verbose (debug), then -q/--quiet (warn), then info.
func SetupLogger(config *Config) {
	zerolog.SetGlobalLevel(determineLogLevel(config))
	if config.NoColor {
		logging.SetDefault(logging.New(os.Stderr))
	}
}

// determineLogLevel resolves the configured log level.
func determineLogLevel(config *Config) zerolog.Level {
	if config.LogLevel != "" {
		level, err := zerolog.ParseLevel(config.LogLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using info\n", config.LogLevel)
			return zerolog.InfoLevel
		}
		return level
	}

	if config.Verbose && config.Quiet {
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		return zerolog.WarnLevel
	}
	if config.Verbose {
		return zerolog.DebugLevel
	}
	if config.Quiet {
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}
