package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ZerologConfig configures a zerolog-backed logger
type ZerologConfig struct {
	// Path of the log file; empty writes to stderr
	Path string

	// Console enables human-readable console output instead of JSON
	Console bool

	// Level is the minimum severity to emit
	Level Level
}

// zerologLogger implements Logger on top of rs/zerolog
type zerologLogger struct {
	log    zerolog.Logger
	closer io.Closer
}

// NewZerolog creates a structured logger. JSON by default, console
// format when requested; log files are created with their parents.
func NewZerolog(cfg ZerologConfig) (Logger, error) {
	var writer io.Writer = os.Stderr
	var closer io.Closer

	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = file
		closer = file
	}

	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer}
	}

	log := zerolog.New(writer).
		Level(zerologLevel(cfg.Level)).
		With().Timestamp().Logger()

	return &zerologLogger{log: log, closer: closer}, nil
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *zerologLogger) emit(event *zerolog.Event, msg string, fields Fields) {
	for key, value := range fields {
		event = event.Interface(key, value)
	}
	event.Msg(msg)
}

func (l *zerologLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.emit(l.log.Debug(), msg, fields)
}

func (l *zerologLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.emit(l.log.Info(), msg, fields)
}

func (l *zerologLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.emit(l.log.Warn(), msg, fields)
}

func (l *zerologLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.emit(l.log.Error().Err(err), msg, fields)
}

func (l *zerologLogger) WithFields(fields Fields) Logger {
	sub := l.log.With()
	for key, value := range fields {
		sub = sub.Interface(key, value)
	}
	return &zerologLogger{log: sub.Logger(), closer: nil}
}

func (l *zerologLogger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
