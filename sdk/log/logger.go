// Package log defines the logger used across the SDK. Callers plug in their
// own implementation; the SDK falls back to NoopLogger when none is given.
package log

import "context"

// Logger is a leveled, structured logger. keysAndValues alternate between a
// string key and its value.
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...interface{})
	Info(ctx context.Context, msg string, keysAndValues ...interface{})
	Warn(ctx context.Context, msg string, keysAndValues ...interface{})
	Error(ctx context.Context, msg string, keysAndValues ...interface{})
}
