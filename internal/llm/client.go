// Package llm provides a unified interface for LLM providers using CloudWeGo Eino.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// Provider identifies the LLM provider to use.
type Provider string

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider    Provider
	Model       string
	APIKey      string  // Required for hosted providers
	BaseURL     string  // Ollama only (default: http://localhost:11434)
	Temperature float32 // 0 means DefaultTemperature
}

// EffectiveModel returns the configured model or the provider default.
func (c Config) EffectiveModel() string {
	if c.Model != "" {
		return c.Model
	}
	return GetDefaultModelID(c.Provider)
}

// EffectiveTemperature returns the configured temperature or DefaultTemperature.
func (c Config) EffectiveTemperature() float32 {
	if c.Temperature > 0 {
		return c.Temperature
	}
	return DefaultTemperature
}

// NewChatModel creates a ChatModel instance based on the provider configuration.
// It returns an Eino BaseChatModel that can be used for Generate() or Stream() calls.
func NewChatModel(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	temp := cfg.EffectiveTemperature()
	modelName := cfg.EffectiveModel()

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:       modelName,
			APIKey:      cfg.APIKey,
			Temperature: &temp,
		})

	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   modelName,
		})

	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key is required")
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:      cfg.APIKey,
			Model:       modelName,
			MaxTokens:   4096,
			Temperature: &temp,
		})

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		client, err := NewGenAIClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, err
		}
		return gemini.NewChatModel(ctx, &gemini.Config{
			Client:      client,
			Model:       modelName,
			Temperature: &temp,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: gemini, openai, ollama, anthropic)", cfg.Provider)
	}
}

// NewGenAIClient creates a Gemini API client for the given key.
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

// ValidateProvider checks if the given provider string is supported.
func ValidateProvider(p string) (Provider, error) {
	switch Provider(p) {
	case ProviderGemini, ProviderOpenAI, ProviderOllama, ProviderAnthropic, ProviderMock:
		return Provider(p), nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", p)
	}
}

// RequiresAPIKey reports whether the provider needs credentials.
func RequiresAPIKey(p Provider) bool {
	return p != ProviderOllama && p != ProviderMock
}
