// Package logging provides a size-bounded file logger for long-running
// stdio servers, where stdout is owned by the protocol and stderr is the
// only console channel left.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// DefaultMaxSize is the log file ceiling. Once the file reaches this
// size the oldest half of its lines is dropped.
const DefaultMaxSize = 20 * 1024 * 1024

// Logger is the logging capability handed to every component. It is an
// explicit dependency rather than a package global so tests can inject
// a capturing implementation.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// FileLogger appends entries to a single file and keeps that file below
// a fixed size ceiling by discarding the oldest half of its lines.
// Logging never returns an error: failures degrade to the fallback
// writer (stderr by default) and are swallowed.
type FileLogger struct {
	path     string
	maxSize  int64
	fallback io.Writer
	now      func() time.Time
}

// Option configures a FileLogger.
type Option func(*FileLogger)

// WithMaxSize overrides the size ceiling. Mostly useful in tests.
func WithMaxSize(n int64) Option {
	return func(l *FileLogger) {
		l.maxSize = n
	}
}

// WithFallback overrides the writer used when file operations fail.
func WithFallback(w io.Writer) Option {
	return func(l *FileLogger) {
		l.fallback = w
	}
}

// WithClock overrides the timestamp source. Mostly useful in tests.
func WithClock(now func() time.Time) Option {
	return func(l *FileLogger) {
		l.now = now
	}
}

// NewFileLogger creates a logger writing to the file at path. The file
// is created on first append.
func NewFileLogger(path string, opts ...Option) *FileLogger {
	l := &FileLogger{
		path:     path,
		maxSize:  DefaultMaxSize,
		fallback: os.Stderr,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Info logs a routine operational message.
func (l *FileLogger) Info(format string, args ...any) {
	l.append("INFO", fmt.Sprintf(format, args...))
}

// Warn logs a recoverable anomaly.
func (l *FileLogger) Warn(format string, args ...any) {
	l.append("WARN", fmt.Sprintf(format, args...))
}

// Error logs a failed operation.
func (l *FileLogger) Error(format string, args ...any) {
	l.append("ERROR", fmt.Sprintf(format, args...))
}

// append writes one entry, truncating the file first when it has grown
// past the ceiling. It never propagates an error to the caller.
func (l *FileLogger) append(level, message string) {
	entry := fmt.Sprintf("[%s] %s: %s\n", l.now().Format(time.RFC3339), level, message)

	size := int64(0)
	if info, err := os.Stat(l.path); err == nil {
		size = info.Size()
	}
	// A missing file is simply an empty log.

	if size >= l.maxSize {
		if !l.truncate() {
			// Truncation failed; start the file over with just this
			// entry rather than letting it grow unbounded.
			if err := os.WriteFile(l.path, []byte(entry), 0o644); err != nil {
				l.fallbackWrite(message, err)
			}
			return
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.fallbackWrite(message, err)
		return
	}
	_, werr := f.WriteString(entry)
	cerr := f.Close()
	if werr != nil {
		l.fallbackWrite(message, werr)
	} else if cerr != nil {
		l.fallbackWrite(message, cerr)
	}
}

// truncate rewrites the file with only the newer half of its lines,
// counted by line, rounded down. Reports whether the rewrite succeeded.
func (l *FileLogger) truncate() bool {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return false
	}
	lines := strings.Split(string(content), "\n")
	kept := strings.Join(lines[len(lines)/2:], "\n")
	return os.WriteFile(l.path, []byte(kept), 0o644) == nil
}

func (l *FileLogger) fallbackWrite(message string, cause error) {
	fmt.Fprintf(l.fallback, "logging error: %v\n", cause)
	fmt.Fprintln(l.fallback, message)
}

// Discard is a Logger that drops everything.
type Discard struct{}

func (Discard) Info(string, ...any)  {}
func (Discard) Warn(string, ...any)  {}
func (Discard) Error(string, ...any) {}
