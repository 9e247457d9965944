// Package logging points the global zerolog logger at slumber's log file.
// Stdout and stderr belong to the CLI and the TUI, so nothing is logged there.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup opens (or creates) the log file and installs it as the global
// logger output. The returned closer flushes the file.
func Setup(path, level string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(lvl)

	if lvl == zerolog.Disabled || path == "" {
		log.Logger = zerolog.Nop()
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.Logger = zerolog.New(f).With().Timestamp().Str("app", "slumber").Logger()
	return f, nil
}

// Discard silences the global logger, used when the log file can't be opened
func Discard() {
	log.Logger = zerolog.Nop()
}

// ParseLevel maps config level names onto zerolog levels
func ParseLevel(level string) (zerolog.Level, error) {
	switch level {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
