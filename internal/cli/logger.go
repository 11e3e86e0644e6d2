package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger returns the console logger shared by all commands.
// The level defaults to info.
func NewLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

// SetVerbose switches the global log level to debug
func SetVerbose(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
