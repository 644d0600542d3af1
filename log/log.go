// Package log wraps zap for the whole module. Configuration is explicit:
// nothing here touches process-global logging state unless Setup or
// SetLogger is called, and a caller-provided logger always wins.
package log

import (
	"os"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger    atomic.Pointer[zap.Logger]
	heapStats atomic.Bool
)

func init() {
	l, _ := basicConfig(zapcore.InfoLevel).Build(zap.AddCallerSkip(1))
	logger.Store(l)
}

func basicConfig(level zapcore.Level) zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// SetLogger injects a caller-built zap logger for all module logging.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger.Store(l.WithOptions(zap.AddCallerSkip(1)))
	}
}

// L returns the current module logger, without the added caller skip.
func L() *zap.Logger {
	return logger.Load().WithOptions(zap.AddCallerSkip(-1))
}

func Sync() error {
	return logger.Load().Sync()
}

func withHeap(fields []zap.Field) []zap.Field {
	if !heapStats.Load() {
		return fields
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return append(fields, zap.Float64("heap_mb", float64(ms.HeapAlloc)/(1<<20)))
}

func Debug(msg string, fields ...zap.Field) {
	logger.Load().Debug(msg, withHeap(fields)...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Load().Info(msg, withHeap(fields)...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Load().Warn(msg, withHeap(fields)...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Load().Error(msg, withHeap(fields)...)
}

func fileCore(enc zapcore.Encoder, path string, enab zapcore.LevelEnabler) (zapcore.Core, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return zapcore.NewCore(enc, zapcore.AddSync(f), enab), nil
}
