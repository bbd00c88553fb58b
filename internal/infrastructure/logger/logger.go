package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"restaurant/internal/config"
)

const consoleFormat = "console"

// New builds a production logger tagged with the service name. An unknown
// level falls back to info. Format "console" selects the human-readable
// encoder, and a non-empty Output replaces stderr.
func New(cfg config.LogConfig, service string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.InitialFields = map[string]interface{}{"service": service}

	if cfg.Format == consoleFormat {
		zcfg.Encoding = consoleFormat
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if cfg.Output != "" {
		zcfg.OutputPaths = []string{cfg.Output}
		zcfg.ErrorOutputPaths = []string{cfg.Output}
	}

	return zcfg.Build()
}
