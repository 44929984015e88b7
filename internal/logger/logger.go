package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envLocal = "local"

// New builds the process logger. The local environment gets the
// human-readable development encoder; everything else logs JSON.
func New(env, level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(env), envLocal) {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return log
}

func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
