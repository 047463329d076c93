// Package logger builds the leveled zap loggers handed to the CLI commands and
// the language server.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the logging level
type Level int

const (
	// LevelOff disables all logging
	LevelOff Level = iota
	// LevelInfo shows basic progress information
	LevelInfo
	// LevelDebug shows detailed debugging information
	LevelDebug
)

// New builds a console logger writing to w. LevelOff yields a no-op logger.
func New(w io.Writer, level Level) *zap.Logger {
	if level <= LevelOff || w == nil {
		return zap.NewNop()
	}
	zl := zapcore.InfoLevel
	if level >= LevelDebug {
		zl = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zl)
	return zap.New(core)
}
