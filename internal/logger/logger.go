// Package logger builds the application's zerolog root logger from the
// logging configuration. Components derive their own loggers with
// `logger.With().Str("component", ...).Logger()`.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/promptdeck/deckhand/internal/config"
)

// New creates a logger from the given log configuration.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	writers := []io.Writer{consoleWriter(cfg.LogFormat)}
	if cfg.LogFile != "" {
		fw, err := fileWriter(cfg)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fw)
	}

	multi := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(multi).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(level)
	return logger, nil
}

func parseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level '%s': %w", levelStr, err)
	}
	return level, nil
}

// consoleWriter builds the stderr writer for the configured format. JSON
// writes raw zerolog output; console and text use the human-readable writer,
// text without color.
func consoleWriter(format string) io.Writer {
	switch strings.ToLower(format) {
	case "json":
		return os.Stderr
	case "text":
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: true}
	default:
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
}

// fileWriter builds a rotating file writer. File output is always JSON so it
// stays machine-parseable regardless of the console format.
func fileWriter(cfg config.LogConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	maxSize := cfg.MaxLogSizeMB
	if maxSize <= 0 {
		maxSize = config.DefaultMaxLogSizeMB
	}

	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxLogBackups,
		LocalTime:  true,
	}, nil
}
