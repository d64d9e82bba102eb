package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

type Level string

const (
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarn     Level = "WARN"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

// slogLevelCritical sits above slog.LevelError; tint renders it as CRIT.
const slogLevelCritical = slog.LevelError + 4

// ParseLevel maps a case-insensitive level name to a Level.
// Unknown names return LevelInfo and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO", "":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "CRITICAL", "CRIT":
		return LevelCritical, true
	default:
		return LevelInfo, false
	}
}

func (l Level) toSlog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelCritical:
		return slogLevelCritical
	default:
		return slog.LevelInfo
	}
}

// Options configures a Logger.
type Options struct {
	MinLevel Level
	NoColor  bool
}

// Logger writes leveled key/value records through a tint slog handler.
// Records below the minimum level are dropped.
type Logger struct {
	sl    *slog.Logger
	level *slog.LevelVar
}

// New creates a Logger writing to w.
func New(w io.Writer, opts Options) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(opts.MinLevel.toSlog())

	h := tint.NewHandler(w, &tint.Options{
		Level:      lv,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= slogLevelCritical {
				return slog.String(slog.LevelKey, "CRIT")
			}
			return a
		},
	})

	return &Logger{sl: slog.New(h), level: lv}
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.toSlog())
}

// Record emits msg at the given level. kv is a list of key/value pairs;
// a trailing key without value is dropped.
func (l *Logger) Record(level Level, msg string, kv ...any) {
	if len(kv)%2 != 0 {
		kv = kv[:len(kv)-1]
	}
	l.sl.Log(context.Background(), level.toSlog(), msg, kv...)
}

func (l *Logger) Debug(msg string, kv ...any) { l.Record(LevelDebug, msg, kv...) }

func (l *Logger) Info(msg string, kv ...any) { l.Record(LevelInfo, msg, kv...) }

func (l *Logger) Warn(msg string, kv ...any) { l.Record(LevelWarn, msg, kv...) }

func (l *Logger) Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	l.Record(LevelError, msg, append([]any{"err", err}, kv...)...)
}

func (l *Logger) Critical(msg string, err error, kv ...any) {
	l.Record(LevelCritical, msg, append([]any{"err", err}, kv...)...)
}

var (
	std     *Logger
	stdOnce sync.Once
)

// Default returns the process-wide logger, writing to stderr at INFO.
func Default() *Logger {
	stdOnce.Do(func() {
		std = New(os.Stderr, Options{MinLevel: LevelInfo})
	})
	return std
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	stdOnce.Do(func() {})
	std = l
}

func SetLevel(l Level) {
	Default().SetLevel(l)
}

func Debug(msg string, kv ...any) {
	Default().Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	Default().Info(msg, kv...)
}

func Warn(msg string, kv ...any) {
	Default().Warn(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	Default().Error(msg, err, kv...)
}

func Critical(msg string, err error, kv ...any) {
	Default().Critical(msg, err, kv...)
}
