// Package logger provides adapters for the logging interface.
package logger

import (
	"context"
)

// Logger is the structured logging surface the search pipeline relies on.
// Any zap-style logger exposing these methods can back a ZapAdapter; the
// cmd, usecases, and git adapter packages each declare the subset they need
// and receive this adapter through dependency injection.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]any)
	Debug(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, err error, fields map[string]any)
}

// ZapAdapter bridges an external zap-backed logger into the narrower
// per-package logging interfaces without coupling them to the library.
type ZapAdapter struct {
	log Logger
}

// NewZapAdapter wraps the given logger. One adapter instance is shared by
// the whole application; search progress and diff evaluations all log
// through it.
func NewZapAdapter(log Logger) *ZapAdapter {
	return &ZapAdapter{log: log}
}

// Info forwards an info message with its structured fields.
func (a *ZapAdapter) Info(ctx context.Context, msg string, fields map[string]any) {
	a.log.Info(ctx, msg, fields)
}

// Debug forwards a debug message, the level used for per-evaluation
// predicate results.
func (a *ZapAdapter) Debug(ctx context.Context, msg string, fields map[string]any) {
	a.log.Debug(ctx, msg, fields)
}

// Warn forwards a warning message.
func (a *ZapAdapter) Warn(ctx context.Context, msg string, fields map[string]any) {
	a.log.Warn(ctx, msg, fields)
}

// Error forwards an error message alongside the failing error.
func (a *ZapAdapter) Error(ctx context.Context, msg string, err error, fields map[string]any) {
	a.log.Error(ctx, msg, err, fields)
}

// Nop is a Logger that discards everything. It is the fallback when no
// logger has been wired and a convenient default for tests.
type Nop struct{}

// Info discards the message.
func (Nop) Info(_ context.Context, _ string, _ map[string]any) {}

// Debug discards the message.
func (Nop) Debug(_ context.Context, _ string, _ map[string]any) {}

// Warn discards the message.
func (Nop) Warn(_ context.Context, _ string, _ map[string]any) {}

// Error discards the message.
func (Nop) Error(_ context.Context, _ string, _ error, _ map[string]any) {}
