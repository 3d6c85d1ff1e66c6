package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
)

type StorageConfig interface {
	Driver() string
	DSN() string
	MaxOpenConns() int
}

type BotConfig interface {
	Token() string
	Debug() bool
	Workers() int
}

type LLMConfig interface {
	Provider() string
	APIKey() string
	Model() string
	BaseURL() string
	Timeout() time.Duration
	Temperature() float64
}

type LogConfig interface {
	Level() slog.Level
	Format() string
}

// Load reads the env file at path into the process environment.
// A missing file is not an error: the variables may come from the real environment.
func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
