// Package logging configures the zerolog logger shared by every component.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Makepad-fr/catalog/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultFileName = "catalog.log"

// DefaultFilePath is ~/.catalog/catalog.log.
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), defaultFileName)
	}
	return filepath.Join(home, ".catalog", defaultFileName)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the logger described by cfg and installs it as the global
// zerolog logger. When interactive is true the terminal belongs to the TUI,
// so nothing is written to stderr and "stderr" output falls back to the file.
// The returned Closer flushes and closes the log file.
func Setup(cfg config.LogConfig, interactive bool) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	output := strings.ToLower(cfg.Output)
	if interactive && output == "stderr" {
		output = "file"
	}

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)
	if output == "file" || output == "both" {
		fw, err := buildFileWriter(cfg)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		writers = append(writers, formatted(fw, cfg.Format, true))
		closer = fw
	}
	if !interactive && (output == "stderr" || output == "both") {
		writers = append(writers, formatted(os.Stderr, cfg.Format, false))
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", level.String()).
		Str("format", cfg.Format).
		Str("output", output).
		Msg("logger initialized")

	return logger, closer, nil
}

func formatted(w io.Writer, format string, noColor bool) io.Writer {
	if strings.EqualFold(format, "console") {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05", NoColor: noColor}
	}
	return w
}

func buildFileWriter(cfg config.LogConfig) (*lumberjack.Logger, error) {
	path := cfg.FilePath
	if path == "" {
		path = DefaultFilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}, nil
}

// For returns a sub-logger tagged with the component name.
func For(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
