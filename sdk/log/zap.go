package log

import (
	"context"

	"go.uber.org/zap"

	"github.com/agenticaihome/agenticaihome-v2/pkg/logtrace"
)

var _ Logger = (*ZapLogger)(nil)

// ZapLogger adapts a zap logger to Logger. The correlation id stored in ctx,
// if any, is attached to every entry.
type ZapLogger struct {
	l *zap.SugaredLogger
}

// NewZapLogger wraps l. A nil l yields a no-op zap logger.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{l: l.Sugar()}
}

func (z *ZapLogger) with(ctx context.Context, keysAndValues []interface{}) []interface{} {
	if id := logtrace.CorrelationID(ctx); id != "" {
		return append(keysAndValues, logtrace.FieldCorrelationID, id)
	}
	return keysAndValues
}

func (z *ZapLogger) Debug(ctx context.Context, msg string, keysAndValues ...interface{}) {
	z.l.Debugw(msg, z.with(ctx, keysAndValues)...)
}

func (z *ZapLogger) Info(ctx context.Context, msg string, keysAndValues ...interface{}) {
	z.l.Infow(msg, z.with(ctx, keysAndValues)...)
}

func (z *ZapLogger) Warn(ctx context.Context, msg string, keysAndValues ...interface{}) {
	z.l.Warnw(msg, z.with(ctx, keysAndValues)...)
}

func (z *ZapLogger) Error(ctx context.Context, msg string, keysAndValues ...interface{}) {
	z.l.Errorw(msg, z.with(ctx, keysAndValues)...)
}
