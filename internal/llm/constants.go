package llm

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderGemini

	// ProviderGemini represents the Google Gemini provider, called through the genai SDK
	ProviderGemini Provider = "gemini"

	// ProviderOpenAI represents the OpenAI provider
	ProviderOpenAI Provider = "openai"

	// ProviderOllama represents the Ollama provider
	ProviderOllama Provider = "ollama"

	// ProviderAnthropic represents the Anthropic provider
	ProviderAnthropic Provider = "anthropic"

	// ProviderMock returns canned artifacts without any network call
	ProviderMock Provider = "mock"
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// DefaultTemperature is the sampling temperature used for artifact generation.
const DefaultTemperature float32 = 0.7

// DefaultModelForProvider returns the default model ID for a given provider.
func DefaultModelForProvider(provider Provider) string {
	return GetDefaultModelID(provider)
}
