// Package log provides the application-wide structured logger. The API is a
// thin package-level facade over zap's SugaredLogger so call sites stay
// short: log.Info("msg", "key", value, ...).
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.SugaredLogger
	loggerOnce sync.Once
	minLevel   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func initLogger() {
	loggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = minLevel
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

		base, err := cfg.Build(zap.AddCallerSkip(2))
		if err != nil {
			// Building the default production config cannot realistically
			// fail; fall back to the no-op logger rather than crash.
			base = zap.NewNop()
		}
		logger = base.Sugar()
	})
}

// SetDebug lowers the minimum level to debug. Safe to call at any time.
func SetDebug(debug bool) {
	initLogger()
	if debug {
		minLevel.SetLevel(zapcore.DebugLevel)
	} else {
		minLevel.SetLevel(zapcore.InfoLevel)
	}
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Infow(msg, kv...)
}

// Error logs msg with the error prepended into the key-value list.
func Error(msg string, err error, kv ...any) {
	initLogger()
	extended := append([]any{"err", err}, kv...)
	logger.Errorw(msg, extended...)
}

// Sync flushes buffered log entries; call before process exit.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
