// Package logging wires the extension's zerolog output: console for the
// engine's stderr, a session log file next to the extension's other state,
// and an optional Graylog (GELF) stream.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Config holds logging settings.
type Config struct {
	Level          string
	LogsDir        string
	ExtensionName  string
	ConsoleWriter  io.Writer // defaults to stderr
	GraylogEnabled bool
	GraylogAddress string
}

// LogFilePath builds a session log file path using OS-appropriate path
// separators.
func LogFilePath(logsDir, extensionName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", extensionName, sessionStart.Format("20060102_150405")),
	)
}

// ParseLevel converts a string log level to a zerolog level, defaulting to
// info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup builds the extension logger. The session log file is created under
// cfg.LogsDir; the returned closer flushes and closes it. Failures to open
// secondary sinks degrade to console-only logging rather than erroring out:
// an extension must never refuse to load because a log sink is down.
func Setup(cfg Config, sessionStart time.Time) (zerolog.Logger, func(), error) {
	console := cfg.ConsoleWriter
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}
	closers := []io.Closer{}

	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("creating logs dir: %w", err)
		}
		path := LogFilePath(cfg.LogsDir, cfg.ExtensionName, sessionStart)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, file)
		closers = append(closers, file)
	}

	if cfg.GraylogEnabled && cfg.GraylogAddress != "" {
		gelfWriter, err := gelf.NewWriter(cfg.GraylogAddress)
		if err == nil {
			writers = append(writers, gelfWriter)
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("extension", cfg.ExtensionName).
		Logger()

	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}
	return logger, closeAll, nil
}
