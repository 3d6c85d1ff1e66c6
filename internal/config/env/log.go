package env

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/config"
)

const (
	logLevelEnvName  = "LOG_LEVEL"
	logFormatEnvName = "LOG_FORMAT"
)

type logConfig struct {
	level  slog.Level
	format string
}

func NewLogConfig() (config.LogConfig, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv(logLevelEnvName, "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	format := strings.ToLower(getEnv(logFormatEnvName, "text"))
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("unsupported LOG_FORMAT %q", format)
	}

	return &logConfig{
		level:  level,
		format: format,
	}, nil
}

func (cfg *logConfig) Level() slog.Level {
	return cfg.level
}

func (cfg *logConfig) Format() string {
	return cfg.format
}
