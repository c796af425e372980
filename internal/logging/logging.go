// Package logging constructs the zerolog logger used across tidyfiles.
// The logger is built once per invocation and handed to components
// explicitly; there is no package-level logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger writing human-readable output to console and, when
// logFile is non-empty, structured JSON lines to that file. Unknown level
// strings fall back to info.
func New(level, logFile string, console io.Writer) (zerolog.Logger, error) {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: "2006-01-02 15:04:05"}}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return zerolog.Nop(), err
		}
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), err
		}
		writers = append(writers, f)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger().
		Level(parseLevel(level))

	return logger, nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
