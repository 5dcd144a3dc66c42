// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for rhi and its sub-packages.
// By default, rhi produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by rhi:
//   - [slog.LevelDebug]: scheduling diagnostics (slot reuse waits, parallel
//     dispatch, runtime construction)
//   - [slog.LevelWarn]: forced execution of a submission with unmet waits
//
// Runtimes hand the logger to their job system at construction, so call
// SetLogger before NewRuntime — or call the job system's own SetLogger —
// to capture job-system output as well.
//
// Example:
//
//	// Enable debug-level logging to stderr:
//	rhi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by rhi.
// The runtime reads it at every log site, so SetLogger takes effect
// immediately for runtime-side logging.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by job systems that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to a job system if it implements the
// loggerSetter interface. Called from NewRuntime so an attached pool shares
// the runtime's logger configuration.
func propagateLogger(js any, l *slog.Logger) {
	if ls, ok := js.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
