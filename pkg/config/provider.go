package config

import (
	"fmt"
	"os"

	"github.com/daykeep/daykeep/pkg/llm/openai"
)

// BuildProvider resolves the LLM settings and constructs the provider.
// Precedence, highest first: CLI flags, environment, config file,
// compiled-in default model. GROQ_API_KEY wins over OPENAI_API_KEY since
// Groq is the default endpoint.
func BuildProvider(cliModel, cliBaseURL, cliAPIKey, defaultModel string) (*openai.Provider, error) {
	fileCfg := GetLLM()

	model := resolveModel(cliModel, defaultModel, fileCfg)
	baseURL := resolveBaseURL(cliBaseURL, fileCfg)
	apiKey := resolveAPIKey(cliAPIKey, fileCfg)

	if apiKey == "" {
		return nil, fmt.Errorf("API key is required. Set GROQ_API_KEY or OPENAI_API_KEY, use -api-key flag, or configure in ~/.daykeep/config.json")
	}

	opts := []openai.ProviderOption{openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	provider, err := openai.NewProvider(apiKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	return provider, nil
}

// resolveModel treats a CLI value equal to the default as "not set" so a
// model configured in the file isn't shadowed by the flag's default.
func resolveModel(cliModel, defaultModel string, fileCfg *LLMSection) string {
	if cliModel != "" && cliModel != defaultModel {
		return cliModel
	}
	if fileCfg != nil {
		if m := fileCfg.GetModel(); m != "" {
			return m
		}
	}
	if cliModel != "" {
		return cliModel
	}
	return defaultModel
}

func resolveBaseURL(cliBaseURL string, fileCfg *LLMSection) string {
	if cliBaseURL != "" {
		return cliBaseURL
	}
	if env := os.Getenv("OPENAI_BASE_URL"); env != "" {
		return env
	}
	if fileCfg != nil {
		return fileCfg.GetBaseURL()
	}
	return ""
}

func resolveAPIKey(cliAPIKey string, fileCfg *LLMSection) string {
	if cliAPIKey != "" {
		return cliAPIKey
	}
	if env := os.Getenv("GROQ_API_KEY"); env != "" {
		return env
	}
	if env := os.Getenv("OPENAI_API_KEY"); env != "" {
		return env
	}
	if fileCfg != nil {
		return fileCfg.GetAPIKey()
	}
	return ""
}
