package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// AppName names the root logger.
const AppName = "citemark"

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// NewLogger returns the program logger writing to stderr at the given
// log_level. "none" discards everything.
func NewLogger(level string) (*zap.Logger, error) {
	return newLogger(level, os.Stderr, EnableColorOutput(os.Stderr))
}

func newLogger(level string, w zapcore.WriteSyncer, color bool) (*zap.Logger, error) {
	var enabler zapcore.LevelEnabler
	switch level {
	case LogNone:
		return zap.NewNop(), nil
	case LogNormal, "":
		enabler = zapcore.InfoLevel
	case LogDebug:
		enabler = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("invalid log_level: %s (valid: %v)", level, ValidLogLevels)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(w), enabler)
	return zap.New(core).Named(AppName), nil
}
