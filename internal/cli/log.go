// Package cli implements the palletctl command-line interface.
//
// This package provides commands for validating and inspecting recipe
// files, exporting them to PDF and DXF, and transferring patterns to and
// from a palletizer PLC without opening the desktop editor. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - validate: Check a recipe file for syntax and constraint errors
//   - show: Print a recipe's pallet config and box list
//   - export: Render a recipe to a PDF pattern sheet or DXF drawing
//   - write: Push a recipe to the PLC's pattern data block
//   - read: Pull the PLC's current pattern into a recipe file
//   - backup: Save the app config and custom presets to one JSON file
//   - restore: Replace the app config and custom presets from a backup
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting. The logger
// writes to w and filters messages at the specified level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to the
// package default so commands always have a valid logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
