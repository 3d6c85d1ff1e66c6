package env

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestNewStorageConfig(t *testing.T) {
	storageKeys := []string{
		dbDriverEnvName, dbURLEnvName, pgUserEnvName, pgPasswordEnvName, pgHostEnvName,
		pgPortEnvName, pgNameEnvName, pgSSLModeEnvName, sqlitePathEnvName, dbMaxOpenConnsEnvName,
	}

	tests := []struct {
		name       string
		env        map[string]string
		wantErr    bool
		wantDriver string
		wantDSN    string
		wantOpen   int
	}{
		{
			name: "postgres from parts",
			env: map[string]string{
				pgUserEnvName: "kontos", pgPasswordEnvName: "s3cret", pgNameEnvName: "finance",
				pgHostEnvName: "db", pgPortEnvName: "5433",
			},
			wantDriver: DriverPostgres,
			wantDSN:    "postgres://kontos:s3cret@db:5433/finance?sslmode=disable",
			wantOpen:   defaultMaxOpenConns,
		},
		{
			name:       "postgres from url",
			env:        map[string]string{dbURLEnvName: "postgres://u:p@h/d"},
			wantDriver: DriverPostgres,
			wantDSN:    "postgres://u:p@h/d",
			wantOpen:   defaultMaxOpenConns,
		},
		{
			name:    "postgres missing credentials",
			env:     map[string]string{pgUserEnvName: "kontos"},
			wantErr: true,
		},
		{
			name:       "sqlite default path",
			env:        map[string]string{dbDriverEnvName: "SQLite", dbMaxOpenConnsEnvName: "20"},
			wantDriver: DriverSQLite,
			wantDSN:    defaultSQLitePath,
			wantOpen:   1,
		},
		{
			name:    "unknown driver",
			env:     map[string]string{dbDriverEnvName: "mysql"},
			wantErr: true,
		},
		{
			name:    "bad max conns",
			env:     map[string]string{dbDriverEnvName: DriverSQLite, dbMaxOpenConnsEnvName: "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, storageKeys...)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := NewStorageConfig()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, cfg.Driver())
			assert.Equal(t, tt.wantDSN, cfg.DSN())
			assert.Equal(t, tt.wantOpen, cfg.MaxOpenConns())
		})
	}
}

func TestNewLLMConfig(t *testing.T) {
	keys := []string{
		llmProviderEnvName, llmAPIKeyEnvName, llmModelEnvName, llmBaseURLEnvName,
		llmTimeoutEnvName, llmTemperatureEnvName, geminiKeyEnvName, openAIKeyEnvName,
	}

	t.Run("gemini defaults with provider key", func(t *testing.T) {
		clearEnv(t, keys...)
		t.Setenv(geminiKeyEnvName, "g-key")

		cfg, err := NewLLMConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, cfg.Provider())
		assert.Equal(t, "g-key", cfg.APIKey())
		assert.Equal(t, defaultLLMTimeout, cfg.Timeout())
		assert.InDelta(t, defaultLLMTemperature, cfg.Temperature(), 1e-9)
	})

	t.Run("openai with explicit settings", func(t *testing.T) {
		clearEnv(t, keys...)
		t.Setenv(llmProviderEnvName, "OpenAI")
		t.Setenv(llmAPIKeyEnvName, "o-key")
		t.Setenv(llmModelEnvName, "gpt-4o-mini")
		t.Setenv(llmTimeoutEnvName, "3s")

		cfg, err := NewLLMConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, cfg.Provider())
		assert.Equal(t, "o-key", cfg.APIKey())
		assert.Equal(t, "gpt-4o-mini", cfg.Model())
		assert.Equal(t, 3*time.Second, cfg.Timeout())
	})

	t.Run("missing key", func(t *testing.T) {
		clearEnv(t, keys...)
		_, err := NewLLMConfig()
		require.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		clearEnv(t, keys...)
		t.Setenv(llmProviderEnvName, "llama")
		t.Setenv(llmAPIKeyEnvName, "k")
		_, err := NewLLMConfig()
		require.Error(t, err)
	})

	t.Run("bad timeout", func(t *testing.T) {
		clearEnv(t, keys...)
		t.Setenv(llmAPIKeyEnvName, "k")
		t.Setenv(llmTimeoutEnvName, "soon")
		_, err := NewLLMConfig()
		require.Error(t, err)
	})
}

func TestNewBotConfig(t *testing.T) {
	clearEnv(t, botTokenEnvName, botDebugEnvName, botWorkersEnvName)

	_, err := NewBotConfig()
	require.Error(t, err)

	t.Setenv(botTokenEnvName, "123:abc")
	t.Setenv(botDebugEnvName, "true")
	cfg, err := NewBotConfig()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Token())
	assert.True(t, cfg.Debug())
	assert.Equal(t, defaultBotWorkers, cfg.Workers())

	t.Setenv(botWorkersEnvName, "0")
	_, err = NewBotConfig()
	require.Error(t, err)
}

func TestNewLogConfig(t *testing.T) {
	clearEnv(t, logLevelEnvName, logFormatEnvName)

	cfg, err := NewLogConfig()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Equal(t, "text", cfg.Format())

	t.Setenv(logLevelEnvName, "debug")
	t.Setenv(logFormatEnvName, "JSON")
	cfg, err = NewLogConfig()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "json", cfg.Format())

	t.Setenv(logFormatEnvName, "xml")
	_, err = NewLogConfig()
	require.Error(t, err)
}
