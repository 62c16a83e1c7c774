package config

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger. The level comes from
// BEETLES_LOG_LEVEL (debug, info, warn, error; default info).
func NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(GetEnv("BEETLES_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// NewFileLogger is NewLogger writing to the file named by BEETLES_LOG_FILE,
// or discarding output when it is unset. The local terminal game uses it
// so log lines never land on the raw-mode screen. The returned close
// function releases the file.
func NewFileLogger(prefix string) (*log.Logger, func() error, error) {
	path := GetEnv("BEETLES_LOG_FILE", "")
	if path == "" {
		return NewLogger(io.Discard, prefix), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(f, prefix), f.Close, nil
}
