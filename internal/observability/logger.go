package observability

import (
	"strings"

	"github.com/railzwaylabs/storefront/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger: console output in development, JSON
// otherwise.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "ts"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(strings.TrimSpace(cfg.LogLevel))
	if err == nil && cfg.LogLevel != "" {
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	log, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", "storefront")), nil
}

func syncLogger(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.StopHook(func() {
		_ = log.Sync()
	}))
}
