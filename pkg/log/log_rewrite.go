package log

import (
	"context"

	"go.uber.org/zap"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/16 15:21
 * @file: log_rewrite.go
 * @description: package level helpers over the global sugared logger
 */

// RequestIdKey is the context key the HTTP layer stores the request id under.
type RequestIdKey struct{}

// WithContext returns a logger carrying the request id found in ctx, if any.
// The caller is called directly, so it must not carry the package skip.
func WithContext(ctx context.Context) *zap.SugaredLogger {
	l := GetDirectLogger()
	if ctx == nil {
		return l
	}
	if rid, ok := ctx.Value(RequestIdKey{}).(string); ok && rid != "" {
		return l.With("request_id", rid)
	}
	return l
}

func Info(args ...any) {
	GetLogger().Info(args...)
}

func Infof(format string, args ...any) {
	GetLogger().Infof(format, args...)
}

func Infow(msg string, keysAndValues ...any) {
	GetLogger().Infow(msg, keysAndValues...)
}

func Debug(args ...any) {
	GetLogger().Debug(args...)
}

func Debugf(format string, args ...any) {
	GetLogger().Debugf(format, args...)
}

func Debugw(msg string, keysAndValues ...any) {
	GetLogger().Debugw(msg, keysAndValues...)
}

func Warn(args ...any) {
	GetLogger().Warn(args...)
}

func Warnf(format string, args ...any) {
	GetLogger().Warnf(format, args...)
}

func Warnw(msg string, keysAndValues ...any) {
	GetLogger().Warnw(msg, keysAndValues...)
}

func Error(args ...any) {
	GetLogger().Error(args...)
}

func Errorf(format string, args ...any) {
	GetLogger().Errorf(format, args...)
}

func Errorw(msg string, keysAndValues ...any) {
	GetLogger().Errorw(msg, keysAndValues...)
}

func Fatal(args ...any) {
	GetLogger().Fatal(args...)
}

func Fatalf(format string, args ...any) {
	GetLogger().Fatalf(format, args...)
}

// Sync flushes buffered entries, called on shutdown.
func Sync() {
	_ = GetZapLogger().Sync()
}
