// Package logging provides leveled, debug-gated logging for Fresh.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// DebugEnabled controls whether Debug() produces output.
// Set from the -debug flag.
var DebugEnabled bool

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Level:           log.DebugLevel,
	ReportTimestamp: true,
	Prefix:          "fresh",
})

// Debug logs a message only when DebugEnabled is true.
func Debug(format string, args ...any) {
	if DebugEnabled {
		logger.Debugf(format, args...)
	}
}

// Info logs an informational message unconditionally.
func Info(format string, args ...any) {
	logger.Infof(format, args...)
}

// Warn logs a recoverable condition (InvalidRange, StaleReference, DecorationOverflow).
func Warn(format string, args ...any) {
	logger.Warnf(format, args...)
}

// Error logs a frame-boundary-recoverable failure (PipelineOverrun, PluginCrash).
func Error(format string, args ...any) {
	logger.Errorf(format, args...)
}

// SetLevel adjusts the logger's minimum level, e.g. for -debug.
func SetLevel(lvl log.Level) {
	logger.SetLevel(lvl)
}
