// Package observability provides logger construction for the table server.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/yahtzee/internal/config"
)

// NewLogger creates a structured logger from the logging section of cfg,
// tagged with the server name.
//
// Precondition: cfg.Logging.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Logging.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Logging.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Logging.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Logging.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	if cfg.Server.Name != "" {
		logger = logger.With(zap.String("server", cfg.Server.Name))
	}
	return logger, nil
}

// TableLogger returns a child of base scoped to one table.
func TableLogger(base *zap.Logger, tableID string, seats int) *zap.Logger {
	return base.With(zap.String("table_id", tableID), zap.Int("seats", seats))
}
