package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// Level controls logger verbosity. Warnings and errors are always shown by
// default; --debug raises to info and --verbose to debug.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger is the structured logging surface used across the codebase.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

var (
	mu    sync.Mutex
	level = LevelWarn
	out   io.Writer = os.Stderr
)

// SetLevel sets the global verbosity level.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// LevelFromFlags maps the --debug/--verbose CLI flags to a level.
func LevelFromFlags(debug, verbose bool) Level {
	switch {
	case verbose:
		return LevelDebug
	case debug:
		return LevelInfo
	default:
		return LevelWarn
	}
}

// SetOutput redirects log output; used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

type fieldLogger struct {
	fields map[string]interface{}
}

func (l *fieldLogger) log(lvl Level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if lvl > level {
		return
	}

	var b strings.Builder
	b.WriteString(lvl.String())
	b.WriteString(" ")
	b.WriteString(msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
		}
	}

	fmt.Fprintln(out, b.String())
}

func (l *fieldLogger) Debug(msg string) { l.log(LevelDebug, msg) }
func (l *fieldLogger) Info(msg string)  { l.log(LevelInfo, msg) }
func (l *fieldLogger) Warn(msg string)  { l.log(LevelWarn, msg) }
func (l *fieldLogger) Error(msg string) { l.log(LevelError, msg) }

func (l *fieldLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *fieldLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &fieldLogger{fields: merged}
}

var root = &fieldLogger{}

// Package-level logging functions

func Debug(msg string) { root.Debug(msg) }
func Info(msg string)  { root.Info(msg) }
func Warn(msg string)  { root.Warn(msg) }
func Error(msg string) { root.Error(msg) }

// WithField returns a logger carrying one structured field.
func WithField(key string, value interface{}) Logger {
	return root.WithField(key, value)
}

// WithFields returns a logger carrying several structured fields.
func WithFields(fields map[string]interface{}) Logger {
	return root.WithFields(fields)
}
