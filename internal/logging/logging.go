// Package logging builds the structured loggers used by the extract command
// and the readers.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/oarkflow/log"
)

// ParseLevel converts a level name to a log level.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", name)
}

// New returns a console logger writing to w at the named level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return &log.Logger{
		Level:  lvl,
		Writer: &log.ConsoleWriter{Writer: w},
	}, nil
}

// NewJSON returns a logger writing one JSON object per line to w.
func NewJSON(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return &log.Logger{
		Level:  lvl,
		Writer: &log.IOWriter{Writer: w},
	}, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.ErrorLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
