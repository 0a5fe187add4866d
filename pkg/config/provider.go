package config

import (
	"fmt"
	"os"

	"github.com/entrhq/agentbrowser/pkg/llm/openai"
)

// ProviderFlags are the command line overrides for the LLM provider.
type ProviderFlags struct {
	Model   string
	BaseURL string
	APIKey  string
}

// BuildProvider creates the generation provider. Each setting is taken from
// the first non-empty source in the order: flags, environment (API key and
// base URL only), config file, defaults.
func BuildProvider(flags ProviderFlags, section *LLMSection) (*openai.Provider, error) {
	model := flags.Model
	baseURL := flags.BaseURL
	apiKey := flags.APIKey

	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}

	temperature := DefaultTemperature
	if section != nil {
		if model == "" {
			model = section.GetModel()
		}
		if baseURL == "" {
			baseURL = section.GetBaseURL()
		}
		if apiKey == "" {
			apiKey = section.GetAPIKey()
		}
		temperature = section.GetTemperature()
	}
	if model == "" {
		model = DefaultModel
	}

	if apiKey == "" {
		return nil, fmt.Errorf("API key is required. Set OPENAI_API_KEY, use -api-key, or set llm.api_key in ~/.agentbrowser/config.json")
	}

	opts := []openai.ProviderOption{
		openai.WithModel(model),
		openai.WithTemperature(temperature),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	provider, err := openai.NewProvider(apiKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	return provider, nil
}
