// Package loggy is a thin slog wrapper with a process-wide logger and
// request-scoped loggers carried on a context.
package loggy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
	once         sync.Once
)

// Config configures the logger
type Config struct {
	Level      slog.Level
	Format     string // "json" or "text"
	Output     string // "stdout", "stderr", or a file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// DefaultConfig returns a default configuration for the logger
func DefaultConfig() Config {
	return Config{
		Level:      slog.LevelInfo,
		Format:     "text",
		Output:     "stderr",
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger
type Logger struct {
	slogger   *slog.Logger
	addSource bool
}

// New builds a logger writing to w
func New(w io.Writer, cfg Config) *Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.TimeFormat != "" {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(a.Key, t.Format(cfg.TimeFormat))
				}
			}
			return a
		}
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{slogger: slog.New(handler), addSource: cfg.AddSource}
}

// Init initializes the global logger once
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		var output io.Writer
		switch cfg.Output {
		case "", "stderr":
			output = os.Stderr
		case "stdout":
			output = os.Stdout
		default:
			if err = os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
				err = fmt.Errorf("failed to create log directory: %w", err)
				return
			}

			var file *os.File
			file, err = os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				err = fmt.Errorf("failed to open log file: %w", err)
				return
			}
			output = file
		}

		SetGlobalLogger(New(output, cfg))
	})

	// Fall back to a silent logger so callers never see a nil global
	if err != nil {
		NewNoopLogger()
	}

	return err
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// NewNoopLogger creates and sets a logger that discards all output, useful for testing
func NewNoopLogger() *Logger {
	noop := New(io.Discard, Config{Level: slog.LevelError})
	SetGlobalLogger(noop)
	return noop
}

// Debug logs at debug level
func Debug(msg string, args ...any) { GetGlobalLogger().log(slog.LevelDebug, msg, args...) }

// Info logs at info level
func Info(msg string, args ...any) { GetGlobalLogger().log(slog.LevelInfo, msg, args...) }

// Warn logs at warn level
func Warn(msg string, args ...any) { GetGlobalLogger().log(slog.LevelWarn, msg, args...) }

// Error logs at error level
func Error(msg string, args ...any) { GetGlobalLogger().log(slog.LevelError, msg, args...) }

// With returns a new Logger derived from the global one
func With(args ...any) *Logger {
	return GetGlobalLogger().With(args...)
}

func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }

func (l *Logger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args...) }

func (l *Logger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args...) }

func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

// With returns a Logger that includes the given attributes in each output operation
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.slogger == nil {
		return l
	}
	return &Logger{slogger: l.slogger.With(args...), addSource: l.addSource}
}

// WithError adds error details to a logger
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With("error", err.Error(), "error_type", fmt.Sprintf("%T", err))
}

// Handler returns the underlying slog.Handler
func (l *Logger) Handler() slog.Handler {
	return l.slogger.Handler()
}

// log skips the wrapper frames so the recorded source points at the caller
func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if l == nil || l.slogger == nil {
		return
	}

	ctx := context.Background()
	if !l.slogger.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, 0)
	if l.addSource {
		// skip log and the Debug/Info/Warn/Error wrapper
		if _, file, line, ok := runtime.Caller(2); ok {
			r.AddAttrs(slog.String("source", fmt.Sprintf("%s:%d", file, line)))
		}
	}
	r.Add(args...)

	_ = l.slogger.Handler().Handle(ctx, r)
}
