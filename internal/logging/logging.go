// Package logging provides the ambient structured-logging channel. It is
// deliberately independent of the Output Contract: these logs are
// operational diagnostics written to stderr, never part of a Structure's
// warnings/errors fields, which are user-facing wire data.
package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// Init (re)configures the package-level logger at the given level name
// ("debug", "info", "warn", "error"). Unrecognized level names fall back
// to "warn", the default per §3's ambient-stack addition.
func Init(levelName string) {
	mu.Lock()
	defer mu.Unlock()

	level := parseLevel(levelName)
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
		return
	}
	logger = built
}

func parseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// L returns the package-level logger, initializing it with the default
// "warn" level on first use if Init was never called.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		built, err := cfg.Build()
		if err != nil {
			logger = zap.NewNop()
		} else {
			logger = built
		}
	}
	return logger
}

// Sync flushes any buffered log entries; call once before process exit.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
