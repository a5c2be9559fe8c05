// Package log provides structured logging for cate.
// Output is disabled unless --debug routes it to stderr or debug_log names a
// file, so encoding and highlighting diagnostics never mix with the rendered
// document on stdout.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatEncoding  Category = "encoding"  // Encoding resolution and decoding
	CatSyntax    Category = "syntax"    // Grammar directory and grammar selection
	CatHighlight Category = "highlight" // Per-line tokenizer results
	CatRender    Category = "render"    // Streaming output loop
	CatConfig    Category = "config"    // Configuration loading/saving
	CatInput     Category = "input"     // File and stdin reads
)

type sink struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel Level
}

var current *sink

// InitWriter sends entries at minLevel and above to w (stderr for --debug).
// It replaces any sinks configured earlier.
func InitWriter(w io.Writer, minLevel Level) {
	current = &sink{w: w, minLevel: minLevel}
}

// Init appends every entry to the file at path, alongside a writer set with
// InitWriter. The returned function closes the file.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: path is user-controlled debug log path
	if err != nil {
		return nil, err
	}

	if current == nil {
		current = &sink{w: f, minLevel: LevelDebug}
	} else {
		current.mu.Lock()
		current.w = io.MultiWriter(current.w, f)
		current.minLevel = LevelDebug
		current.mu.Unlock()
	}
	return func() { _ = f.Close() }, nil
}

// Reset drops all sinks. Used by tests.
func Reset() {
	current = nil
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// ErrorErr logs err at error level.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	s := current
	if s == nil || level < s.minLevel {
		return
	}

	// Format: 2025-12-06T10:45:00 [DEBUG] [encoding] message key=value key2=value2
	var entry strings.Builder
	entry.WriteString(time.Now().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&entry, " [%s] [%s] %s", level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&entry, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&entry, " %v=<missing>", fields[len(fields)-1])
	}
	entry.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, entry.String())
}
