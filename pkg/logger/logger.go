package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var once sync.Once

var logger *zap.SugaredLogger

// Get initializes a zap.SugaredLogger instance if it has not been initialized
// already and returns the same instance for subsequent calls. The level comes
// from LOG_LEVEL; setting JSON_LOG switches to structured JSON output.
func Get() *zap.SugaredLogger {
	once.Do(func() {
		level := zap.InfoLevel
		if levelEnv := os.Getenv("LOG_LEVEL"); levelEnv != "" {
			parsed, err := zapcore.ParseLevel(levelEnv)
			if err != nil {
				log.Println(fmt.Errorf("invalid level, defaulting to INFO: %w", err))
			} else {
				level = parsed
			}
		}

		developmentCfg := zap.NewDevelopmentEncoderConfig()
		developmentCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder := zapcore.NewConsoleEncoder(developmentCfg)

		if os.Getenv("JSON_LOG") != "" {
			productionCfg := zap.NewProductionEncoderConfig()
			productionCfg.TimeKey = "timestamp"
			productionCfg.EncodeTime = zapcore.ISO8601TimeEncoder
			encoder = zapcore.NewJSONEncoder(productionCfg)
		}

		core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), zap.NewAtomicLevelAt(level))
		logger = zap.New(core).Sugar()
	})

	return logger
}

// FromCtx returns the Logger associated with the ctx, optionally extended
// with key/value pairs. If no logger is associated, the default logger is
// returned.
func FromCtx(ctx context.Context, with ...any) *zap.SugaredLogger {
	l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger)
	if !ok {
		l = Get()
	}

	if len(with) == 0 {
		return l
	}

	return l.With(with...)
}

// WithCtx returns a copy of ctx with the Logger attached.
func WithCtx(ctx context.Context, l *zap.SugaredLogger) context.Context {
	if lp, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
		if lp == l {
			// Do not store same logger.
			return ctx
		}
	}

	return context.WithValue(ctx, ctxKey{}, l)
}
