// Package logging provides the leveled, structured logger used by the
// preprocessor and its command line front-end.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Format selects how log records are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logger configuration
type Config struct {
	Level  string    // debug, info, warn or error (default: warn)
	Format Format    // text or json (default: text)
	Output io.Writer // default: os.Stderr
	Name   string    // added to every record as "logger"
}

// Logger is a named structured logger.
type Logger struct {
	l     *slog.Logger
	level *slog.LevelVar
	name  string
}

// ParseLevel converts a level name into a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
}

// New creates a logger from cfg. An unknown level falls back to warn.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	lvl, _ := ParseLevel(cfg.Level)
	level := new(slog.LevelVar)
	level.Set(lvl)

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		h = slog.NewTextHandler(cfg.Output, opts)
	}

	l := slog.New(h)
	if cfg.Name != "" {
		l = l.With("logger", cfg.Name)
	}
	return &Logger{l: l, level: level, name: cfg.Name}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Config{Output: io.Discard, Level: "error"})
}

// With returns a logger that adds the given key/value pairs to every record.
func (lg *Logger) With(args ...any) *Logger {
	return &Logger{l: lg.l.With(args...), level: lg.level, name: lg.name}
}

// WithRunID tags every record with a fresh run identifier.
func (lg *Logger) WithRunID() *Logger {
	return lg.With("run_id", uuid.NewString())
}

// SetLevel changes the minimum level of lg and every logger derived from it.
func (lg *Logger) SetLevel(level slog.Level) {
	lg.level.Set(level)
}

func (lg *Logger) Level() slog.Level {
	return lg.level.Level()
}

func (lg *Logger) Name() string {
	return lg.name
}

func (lg *Logger) Debug(msg string, args ...any) { lg.l.Debug(msg, args...) }
func (lg *Logger) Info(msg string, args ...any)  { lg.l.Info(msg, args...) }
func (lg *Logger) Warn(msg string, args ...any)  { lg.l.Warn(msg, args...) }
func (lg *Logger) Error(msg string, args ...any) { lg.l.Error(msg, args...) }

// ErrorWithErr logs msg at error level with err attached.
func (lg *Logger) ErrorWithErr(msg string, err error, args ...any) {
	lg.l.Error(msg, append([]any{"error", err}, args...)...)
}
