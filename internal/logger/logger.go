// Package logger provides leveled logging for the jukemir launcher.
//
// The logger writes printf-style messages to stderr with a level prefix and
// timestamp. Debug output is suppressed unless verbose mode is enabled,
// which keeps normal CLI output quiet while still allowing detailed traces
// of host introspection and Docker operations when troubleshooting.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level identifies the severity of a log message.
type Level int

const (
	// LevelDebug is for detailed traces (host queries, composed flags).
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarn is for recoverable or degraded conditions.
	LevelWarn

	// LevelError is for failures that abort the current operation.
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	minimum Level     = LevelInfo
)

// SetVerbose lowers the minimum level to debug when enabled.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		minimum = LevelDebug
	} else {
		minimum = LevelInfo
	}
}

// SetOutput redirects log output. Used by tests to capture messages.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

func logf(level Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if level < minimum {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(out, "%s [%s] %s\n", timestamp, levelNames[level], fmt.Sprintf(format, args...))
}

// Debug logs a debug-level message. Suppressed unless verbose mode is on.
func Debug(format string, args ...interface{}) {
	logf(LevelDebug, format, args...)
}

// Info logs an info-level message.
func Info(format string, args ...interface{}) {
	logf(LevelInfo, format, args...)
}

// Warn logs a warning-level message.
func Warn(format string, args ...interface{}) {
	logf(LevelWarn, format, args...)
}

// Error logs an error-level message.
func Error(format string, args ...interface{}) {
	logf(LevelError, format, args...)
}
