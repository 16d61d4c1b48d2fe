package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global *zap.SugaredLogger
	once   sync.Once
)

// Init replaces the global logger with one configured at the given level.
// Safe to call once from main; packages use the level-named helpers below.
func Init(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	global = l.Sugar()
}

func get() *zap.SugaredLogger {
	once.Do(func() {
		if global == nil {
			l, _ := zap.NewProduction(zap.AddCallerSkip(1))
			global = l.Sugar()
		}
	})
	return global
}

// withCtx attaches request-scoped fields when present.
func withCtx(ctx context.Context) *zap.SugaredLogger {
	l := get()
	if ctx == nil {
		return l
	}
	if reqID, ok := ctx.Value(ctxKeyRequestID{}).(string); ok {
		l = l.With("request_id", reqID)
	}
	return l
}

type ctxKeyRequestID struct{}

// WithRequestID returns a context whose log lines carry the request id.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID{}, reqID)
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	withCtx(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	withCtx(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	withCtx(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	withCtx(ctx).Errorf(format, args...)
}

func Error(ctx context.Context, args ...interface{}) {
	withCtx(ctx).Error(args...)
}

func Fatal(ctx context.Context, args ...interface{}) {
	withCtx(ctx).Fatal(args...)
}
