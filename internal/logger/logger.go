// Package logger provides the process-wide structured logger used across
// the codec, transports, and CLI drivers.
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// dynamicLevel implements slog.Leveler over an atomically-updatable level,
// so SetLevel takes effect on an already-constructed Logger.
type dynamicLevel struct {
	v atomic.Int64
}

func (d *dynamicLevel) Level() slog.Level { return slog.Level(d.v.Load()) }
func (d *dynamicLevel) set(l slog.Level)  { d.v.Store(int64(l)) }

var (
	once    sync.Once
	level   = &dynamicLevel{}
	logger  *slog.Logger
	logLock sync.RWMutex
)

// EnvVar is the environment variable consulted by detectLevel when no
// explicit flag value was given.
const EnvVar = "STROKKUR_LOG_LEVEL"

// Init constructs the package-wide logger. Safe to call more than once;
// only the first call takes effect. flagLevel is the value of a -log.level
// CLI flag, or "" if unset.
func Init(flagLevel string) {
	once.Do(func() {
		level.set(detectLevel(flagLevel))
		logLock.Lock()
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		logLock.Unlock()
	})
}

func detectLevel(flagLevel string) slog.Level {
	if flagLevel != "" {
		if l, ok := parseLevel(flagLevel); ok {
			return l
		}
	}
	if env := os.Getenv(EnvVar); env != "" {
		if l, ok := parseLevel(env); ok {
			return l
		}
	}
	return slog.LevelInfo
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// SetLevel changes the active log level at runtime.
func SetLevel(l slog.Level) { level.set(l) }

// Level returns the active log level.
func Level() slog.Level { return level.Level() }

// UseWriter is a test/tooling hook to redirect log output.
func UseWriter(w *slog.Logger) {
	logLock.Lock()
	defer logLock.Unlock()
	logger = w
}

// Logger returns the package-wide logger, initializing it with defaults if
// Init was never called.
func Logger() *slog.Logger {
	Init("")
	logLock.RLock()
	defer logLock.RUnlock()
	return logger
}

func Debug(ctx context.Context, msg string, args ...any) { Logger().DebugContext(ctx, msg, args...) }
func Info(ctx context.Context, msg string, args ...any)  { Logger().InfoContext(ctx, msg, args...) }
func Warn(ctx context.Context, msg string, args ...any)  { Logger().WarnContext(ctx, msg, args...) }
func Error(ctx context.Context, msg string, args ...any) { Logger().ErrorContext(ctx, msg, args...) }

// WithMessage returns a logger with message_id and source address attached,
// the shape most codec log lines need.
func WithMessage(messageID, source string) *slog.Logger {
	return Logger().With("message_id", messageID, "source", source)
}
