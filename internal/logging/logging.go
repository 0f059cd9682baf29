// Package logging builds the process logger from the application config.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options controls where and how much is logged
type Options struct {
	// File is the log file; empty logs to Stderr
	File  string
	Level string
	// Stderr is the fallback writer; nil means os.Stderr
	Stderr io.Writer
}

// Logger wraps the configured logger with the file it writes to, if any
type Logger struct {
	*log.Logger
	file *os.File
}

// New opens the log destination. If the log file cannot be opened the logger
// falls back to Stderr and the error is returned alongside it.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var (
		w       io.Writer = stderr
		f       *os.File
		openErr error
	)
	if opts.File != "" {
		f, openErr = openLogFile(opts.File)
		if openErr == nil {
			w = f
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "themesync",
		Level:           level,
		ReportTimestamp: f != nil,
		TimeFormat:      time.StampMicro,
	})
	if openErr != nil {
		return &Logger{Logger: logger}, fmt.Errorf("failed to open log file, logging to stderr: %w", openErr)
	}
	return &Logger{Logger: logger, file: f}, nil
}

// Close closes the log file if opened
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel parses a level name; empty means info
func ParseLevel(s string) (log.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level '%s'", s)
	}
	return level, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
