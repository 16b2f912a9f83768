package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string
	Service    string // added to every entry when set
}

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// DefaultConfig returns a configuration suitable for development
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "console", Output: "stdout"}
}

// New builds a zap logger from cfg. Paths other than stdout and stderr are
// opened for append; a path that cannot be opened is an error.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = defaultTimeFormat
	}
	output := strings.ToLower(cfg.Output)
	if output == "" {
		output = "stdout"
	} else if output != "stdout" && output != "stderr" {
		output = cfg.Output
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	enc.EncodeDuration = zapcore.MillisDurationEncoder
	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}
	if cfg.Service != "" {
		zc.InitialFields = map[string]any{"service": cfg.Service}
	}
	return zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// parseLevel maps a configured level name, defaulting to info
func parseLevel(level string) zapcore.Level {
	if strings.EqualFold(level, "warning") {
		return zapcore.WarnLevel
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil || lvl < zapcore.DebugLevel || lvl > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return lvl
}
