package mainframequiz

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Package logger. Defaults to a nop logger so the library stays silent until
// a binary calls InitLogger.
var log = zap.NewNop()

// InitLogger configures the package logger. Verbose enables debug-level
// output.
func InitLogger(verbose bool) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)
	log = zap.New(core)
}

// Logger returns the package logger for use by the binaries.
func Logger() *zap.Logger {
	return log
}

// SyncLogger flushes any buffered log entries.
func SyncLogger() {
	_ = log.Sync()
}
