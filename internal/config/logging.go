package config

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/zerodesign/internal/logging"
)

// Logger is used for problems found while loading configuration, before
// the CLI has built its own logger.
//
//nolint:gochecknoglobals // Needed before any configuration exists.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	Level(zerolog.WarnLevel).
	With().
	Timestamp().
	Logger()

//nolint:gochecknoglobals // Guards Logger replacement.
var logMu sync.Mutex

// SetLogger replaces the package logger once the CLI has configured one.
func SetLogger(l zerolog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	Logger = l
}

// ToLoggingConfig converts LoggingConfig into logging.Config.
//
//   - Level and Format are copied directly
//   - If File is set, Output becomes "file"
//   - Otherwise Output is "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global Logging section. Flag
// overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
