package env

import (
	"errors"

	"github.com/Lina3386/kontos-bot/internal/config"
)

const (
	botTokenEnvName   = "TELEGRAM_BOT_TOKEN"
	botDebugEnvName   = "BOT_DEBUG"
	botWorkersEnvName = "BOT_WORKERS"

	defaultBotWorkers = 4
)

type botConfig struct {
	token   string
	debug   bool
	workers int
}

func NewBotConfig() (config.BotConfig, error) {
	token := getEnv(botTokenEnvName, "")
	if token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN not found")
	}

	workers, err := getEnvInt(botWorkersEnvName, defaultBotWorkers)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, errors.New("BOT_WORKERS must be at least 1")
	}

	return &botConfig{
		token:   token,
		debug:   getEnvBool(botDebugEnvName),
		workers: workers,
	}, nil
}

func (cfg *botConfig) Token() string {
	return cfg.token
}

func (cfg *botConfig) Debug() bool {
	return cfg.debug
}

func (cfg *botConfig) Workers() int {
	return cfg.workers
}
