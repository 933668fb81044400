// Package logger provides the shared zap logger for healthdesk commands.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a console logger writing to stdout.
func NewLogger(debug bool) *zap.Logger {
	return newLogger(debug, os.Stdout)
}

// NewStderrLogger builds a console logger writing to stderr. Commands that
// speak a protocol on stdout (the MCP stdio transport, the terminal UI) must
// keep log output off that stream.
func NewStderrLogger(debug bool) *zap.Logger {
	return newLogger(debug, os.Stderr)
}

func newLogger(debug bool, sink io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(sink),
		level,
	)

	return zap.New(core, zap.AddCaller())
}
