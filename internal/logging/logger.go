// Package logging provides the structured logger used across asmbox. It is
// configured through environment variables and can redirect output to a
// timestamped file for later inspection with `asmbox logs`.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// FilePattern matches the debug log files this package creates.
const FilePattern = "asmbox-*-debug.log"

// LoggerCloser wraps a logger and closes the underlying writer on shutdown.
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable.
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// NewLoggerWithWriter creates a new logger with the provided writer.
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	switch os.Getenv("ASMBOX_LOG_LEVEL") {
	case "debug":
		lg.SetLevel(log.DebugLevel)
	case "warn":
		lg.SetLevel(log.WarnLevel)
	case "error":
		lg.SetLevel(log.ErrorLevel)
	default:
		lg.SetLevel(log.InfoLevel)
	}

	prefix := os.Getenv("ASMBOX_LOG_PREFIX")
	if prefix == "" {
		prefix = "asmbox "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a new logger based on environment variables.
// ASMBOX_LOG_LEVEL: debug, info, warn, error (default: info)
// ASMBOX_LOG_PREFIX: prefix for log messages (default: "asmbox ")
// ASMBOX_LOG_TO_FILE: when set to "1", logs to a timestamped file instead of stderr
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv("ASMBOX_LOG_TO_FILE") == "1" {
		timestamp := time.Now().Format("20060102-150405")
		logFile := fmt.Sprintf("asmbox-%s-debug.log", timestamp)

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// If file creation fails, fall back to stderr.
	}

	return NewLoggerWithWriter(output)
}

// LatestLogFile returns the newest debug log file in dir, or "" when none
// exist.
func LatestLogFile(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, FilePattern))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Strings(matches) // timestamped names sort chronologically
	return matches[len(matches)-1]
}
