package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config mirrors the LOG_* environment settings.
type Config struct {
	Level  string
	Format string
	Output string
}

// New builds a structured logger and the closer for its output file.
// An empty Output or "stdout" writes to standard output.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	output, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, err
	}
	return NewWithWriter(output, cfg), closer, nil
}

// NewWithWriter builds a logger on an existing writer.
func NewWithWriter(output io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}

// InitWithConfig installs the configured logger as the process default.
func InitWithConfig(cfg Config) (*slog.Logger, io.Closer, error) {
	log, closer, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(log)
	return log, closer, nil
}

// GetLogger returns the process default logger.
func GetLogger() *slog.Logger {
	return slog.Default()
}

func WithFields(fields ...any) *slog.Logger {
	return slog.Default().With(fields...)
}

func Info(msg string, args ...any) {
	slog.Default().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	slog.Default().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	slog.Default().Error(msg, args...)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutput(path string) (io.Writer, io.Closer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "stdout" {
		return os.Stdout, nopCloser{}, nil
	}
	if path == "stderr" {
		return os.Stderr, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
