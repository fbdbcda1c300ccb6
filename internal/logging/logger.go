// Package logging provides structured logging for togglcmder.
//
// Loggers are built once per invocation with New and handed to each component
// that logs. Output goes to stderr and, when a file is configured, to a
// size-rotated log file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelCritical sits above slog.LevelError and is the quietest level.
const LevelCritical = slog.LevelError + 4

// Config holds logger configuration.
type Config struct {
	Level     slog.Level // Minimum log level
	JSON      bool       // Use JSON output format
	Output    io.Writer  // Console destination (default: stderr)
	File      string     // Rotated log file; empty disables file output
	AddSource bool       // Include source file and line number

	MaxSizeMB  int // Rotate after this size (default 5)
	MaxBackups int // Rotated files to keep (default 3)
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:      LevelCritical,
		Output:     os.Stderr,
		File:       DefaultFile(),
		MaxSizeMB:  5,
		MaxBackups: 3,
	}
}

// DefaultFile returns the default log file path following the XDG spec.
func DefaultFile() string {
	return filepath.Join(xdg.StateHome, "togglcmder", "togglcmder.log")
}

// LevelFromVerbosity maps a -v count to a level: 0 logs only critical
// events and every step down adds one level, reaching debug at 4.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return LevelCritical
	case v == 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// New builds a logger from cfg. The returned closer releases the log file
// and must be called when the invocation ends.
func New(cfg Config) (*slog.Logger, io.Closer) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 5),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
		}
		output = io.MultiWriter(output, file)
		closer = file
	}

	opts := &slog.HandlerOptions{
		Level:       cfg.Level,
		AddSource:   cfg.AddSource,
		ReplaceAttr: maskAttr,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler), closer
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// maskAttr hides the values of sensitive attributes.
func maskAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
			return slog.String(slog.LevelKey, "CRITICAL")
		}
	}
	if IsSensitiveField(a.Key) && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, MaskPartial(a.Value.String(), 4))
	}
	return a
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Common structured logging fields.
const (
	KeyRequestID = "request_id"
	KeyComponent = "component"
	KeyOperation = "op"
	KeyKind      = "kind"
	KeyID        = "id"
	KeyCount     = "count"
	KeyDuration  = "duration_ms"
	KeyError     = "error"
	KeyStatus    = "status"
	KeyURL       = "url"
	KeyWorkspace = "workspace"
)
