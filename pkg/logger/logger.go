package logger

import (
	"context"
	"os"

	"storefront/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Capture func(attrs ...zap.Field)

type Logger interface {
	Context(ctx context.Context) context.Context
	WithRequestID(ctx context.Context, requestID string) context.Context
	ContextWithCapture(ctx context.Context, operationName string) (context.Context, Capture)

	Debug(ctx context.Context, log string, fields ...zapcore.Field)
	Info(ctx context.Context, log string, fields ...zapcore.Field)
	Warn(ctx context.Context, log string, fields ...zapcore.Field)
	Error(ctx context.Context, log string, fields ...zapcore.Field)
}

var Module = fx.Provide(func(cfg config.IConfig) Logger {
	return New(cfg.GetString("log.level"))
})

// New constructs a JSON logger writing to stdout.
func New(level string) Logger {
	stdoutSyncer := zapcore.Lock(os.Stdout)

	prodEncoderConfig := zap.NewProductionEncoderConfig()
	prodEncoderConfig.FunctionKey = "func"
	prodEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(prodEncoderConfig),
		stdoutSyncer,
		getLevel(level),
	)

	// AddCallerSkip hides the wrapper methods from the caller field.
	log := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return newWithZap(log)
}

// NewNop discards everything. Used in tests.
func NewNop() Logger {
	return newWithZap(zap.NewNop())
}

// NewWithZap wraps an existing zap logger.
func NewWithZap(log *zap.Logger) Logger {
	return newWithZap(log)
}

func newWithZap(log *zap.Logger) *logger {
	return &logger{
		lg:          log,
		idGenerator: defaultIDGenerator(),
	}
}

type logger struct {
	lg          *zap.Logger
	idGenerator IDGenerator
}

func getLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warning", "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
