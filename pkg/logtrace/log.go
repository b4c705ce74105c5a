package logtrace

import (
	"context"
	"os"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextKey is the type used for storing values in context
type ContextKey string

// CorrelationIDKey is the key for storing correlation ID in context
const CorrelationIDKey ContextKey = "correlation_id"

var (
	mu     sync.RWMutex
	logger *zap.Logger
)

// Setup initializes the process-wide logger. LOG_LEVEL selects the level,
// LOG_FORMAT=json switches to production encoding and LOG_TRACING=1 adds
// caller information to every entry.
func Setup(serviceName string) {
	var config zap.Config
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Level = zap.NewAtomicLevelAt(getLogLevel())

	var opts []zap.Option
	if getTracingEnabled() {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	l, err := config.Build(opts...)
	if err != nil {
		panic(err)
	}
	SetLogger(l.With(zap.String("service", serviceName)))
}

// SetLogger replaces the process-wide logger, e.g. with zap.NewNop() in tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func current() *zap.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		Setup("agenticaihome-sdk")
		mu.RLock()
		l = logger
		mu.RUnlock()
	}
	return l
}

// getLogLevel returns the log level from environment variable LOG_LEVEL
func getLogLevel() zapcore.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getTracingEnabled() bool {
	return strings.ToLower(os.Getenv("LOG_TRACING")) == "1"
}

// CtxWithCorrelationID stores a correlation ID inside the context
func CtxWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// CorrelationID retrieves the correlation ID from context
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}
	return ""
}

func logWithLevel(level zapcore.Level, ctx context.Context, message string, fields Fields) {
	zapFields := make([]zap.Field, 0, len(fields)+1)
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	if id := CorrelationID(ctx); id != "" {
		zapFields = append(zapFields, zap.String(FieldCorrelationID, id))
	}

	if getTracingEnabled() {
		if pc, file, line, ok := runtime.Caller(2); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				zapFields = append(zapFields,
					zap.String("caller", fn.Name()),
					zap.String("file", file),
					zap.Int("line", line))
			}
		}
	}

	if ce := current().Check(level, message); ce != nil {
		ce.Write(zapFields...)
	}
}

// Error logs an error message with structured fields
func Error(ctx context.Context, message string, fields Fields) {
	logWithLevel(zapcore.ErrorLevel, ctx, message, fields)
}

// Warn logs a warning message with structured fields
func Warn(ctx context.Context, message string, fields Fields) {
	logWithLevel(zapcore.WarnLevel, ctx, message, fields)
}

// Info logs an informational message with structured fields
func Info(ctx context.Context, message string, fields Fields) {
	logWithLevel(zapcore.InfoLevel, ctx, message, fields)
}

// Debug logs a debug message with structured fields
func Debug(ctx context.Context, message string, fields Fields) {
	logWithLevel(zapcore.DebugLevel, ctx, message, fields)
}
