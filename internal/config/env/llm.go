package env

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lina3386/kontos-bot/internal/config"
)

const (
	llmProviderEnvName    = "LLM_PROVIDER"
	llmAPIKeyEnvName      = "LLM_API_KEY"
	llmModelEnvName       = "LLM_MODEL"
	llmBaseURLEnvName     = "LLM_BASE_URL"
	llmTimeoutEnvName     = "LLM_TIMEOUT"
	llmTemperatureEnvName = "LLM_TEMPERATURE"
	geminiKeyEnvName      = "GEMINI_API_KEY"
	openAIKeyEnvName      = "OPENAI_API_KEY"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	defaultLLMTimeout     = 8 * time.Second
	defaultLLMTemperature = 0.1
)

type llmConfig struct {
	provider    string
	apiKey      string
	model       string
	baseURL     string
	timeout     time.Duration
	temperature float64
}

func NewLLMConfig() (config.LLMConfig, error) {
	provider := strings.ToLower(getEnv(llmProviderEnvName, ProviderGemini))

	apiKey := getEnv(llmAPIKeyEnvName, "")
	switch provider {
	case ProviderGemini:
		if apiKey == "" {
			apiKey = getEnv(geminiKeyEnvName, "")
		}
	case ProviderOpenAI:
		if apiKey == "" {
			apiKey = getEnv(openAIKeyEnvName, "")
		}
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key for LLM provider %q not found", provider)
	}

	timeout, err := getEnvDuration(llmTimeoutEnvName, defaultLLMTimeout)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%s must be positive", llmTimeoutEnvName)
	}

	temperature, err := getEnvFloat(llmTemperatureEnvName, defaultLLMTemperature)
	if err != nil {
		return nil, err
	}

	return &llmConfig{
		provider:    provider,
		apiKey:      apiKey,
		model:       getEnv(llmModelEnvName, ""),
		baseURL:     getEnv(llmBaseURLEnvName, ""),
		timeout:     timeout,
		temperature: temperature,
	}, nil
}

func (cfg *llmConfig) Provider() string {
	return cfg.provider
}

func (cfg *llmConfig) APIKey() string {
	return cfg.apiKey
}

func (cfg *llmConfig) Model() string {
	return cfg.model
}

func (cfg *llmConfig) BaseURL() string {
	return cfg.baseURL
}

func (cfg *llmConfig) Timeout() time.Duration {
	return cfg.timeout
}

func (cfg *llmConfig) Temperature() float64 {
	return cfg.temperature
}
