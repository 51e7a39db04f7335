// Package logging builds the zap loggers that carry diagnostics. Diagnostics
// always go to stderr so they never mix with replies on stdout.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a supported logging granularity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format is a supported logger output encoding.
type Format string

const (
	FormatConsole    Format = "console"
	FormatStructured Format = "structured"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var encodings = map[Format]string{
	FormatConsole:    "console",
	FormatStructured: "json",
}

func resolve(level Level, format Format) (zapcore.Level, string, error) {
	zapLevel, ok := levels[level]
	if !ok {
		return 0, "", fmt.Errorf("unsupported log level: %s", level)
	}
	encoding, ok := encodings[format]
	if !ok {
		return 0, "", fmt.Errorf("unsupported log format: %s", format)
	}
	return zapLevel, encoding, nil
}

// New returns a logger writing to stderr at the given level and format.
func New(level Level, format Format) (*zap.Logger, error) {
	zapLevel, encoding, err := resolve(level, format)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.Encoding = encoding
	if format == FormatConsole {
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// NewWithWriter returns a logger writing to w. It is used where the output
// must be captured, such as tests and embedding hosts.
func NewWithWriter(level Level, format Format, w io.Writer) (*zap.Logger, error) {
	zapLevel, encoding, err := resolve(level, format)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	var encoder zapcore.Encoder
	if encoding == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapLevel)
	return zap.New(core), nil
}
