package llm

import "strings"

// Model is one selectable chat model.
type Model struct {
	ID         string   // Canonical model ID (e.g., "gemini-2.5-flash")
	ProviderID Provider // Internal provider ID
	Aliases    []string // Alternative IDs including dated versions
	IsDefault  bool     // Whether this is the default model for its provider
}

// ModelRegistry lists the models offered by `perspecto config`.
// Unknown model IDs are still accepted and passed through to the provider.
var ModelRegistry = []Model{
	// Google Gemini
	{ID: "gemini-2.5-flash", ProviderID: ProviderGemini, IsDefault: true},
	{ID: "gemini-2.5-pro", ProviderID: ProviderGemini},
	{ID: "gemini-2.5-flash-lite", ProviderID: ProviderGemini},
	{ID: "gemini-2.0-flash", ProviderID: ProviderGemini},

	// OpenAI
	{ID: "gpt-4o-mini", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4o-mini-2024-07-18"}, IsDefault: true},
	{ID: "gpt-4o", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4o-2024-08-06"}},
	{ID: "gpt-4.1-mini", ProviderID: ProviderOpenAI, Aliases: []string{"gpt-4.1-mini-2025-04-14"}},

	// Anthropic
	{ID: "claude-3-5-sonnet-latest", ProviderID: ProviderAnthropic, Aliases: []string{"claude-3-5-sonnet-20241022"}, IsDefault: true},
	{ID: "claude-3-5-haiku-latest", ProviderID: ProviderAnthropic, Aliases: []string{"claude-3-5-haiku-20241022"}},

	// Ollama (local)
	{ID: "llama3.2", ProviderID: ProviderOllama, IsDefault: true},
	{ID: "mistral", ProviderID: ProviderOllama},

	{ID: "demo", ProviderID: ProviderMock, IsDefault: true},
}

var modelIndex map[string]*Model

func init() {
	buildModelIndex()
}

func buildModelIndex() {
	modelIndex = make(map[string]*Model)
	for i := range ModelRegistry {
		m := &ModelRegistry[i]
		modelIndex[m.ID] = m
		for _, alias := range m.Aliases {
			modelIndex[alias] = m
		}
	}
}

// GetModel returns the model definition for a given model ID or alias.
// Returns nil if the model is not found.
func GetModel(modelID string) *Model {
	return modelIndex[modelID]
}

// GetDefaultModelID returns the default model ID for a provider.
func GetDefaultModelID(provider Provider) string {
	for _, m := range ModelRegistry {
		if m.ProviderID == provider && m.IsDefault {
			return m.ID
		}
	}
	return ""
}

// GetModelsForProvider returns the registered model IDs of a provider, default first.
func GetModelsForProvider(provider Provider) []string {
	var ids []string
	for _, m := range ModelRegistry {
		if m.ProviderID != provider {
			continue
		}
		if m.IsDefault {
			ids = append([]string{m.ID}, ids...)
		} else {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// InferProvider attempts to determine the provider from a model name.
// Returns the provider ID and true if inference succeeded.
func InferProvider(modelID string) (Provider, bool) {
	if m := GetModel(modelID); m != nil {
		return m.ProviderID, true
	}

	switch {
	case strings.HasPrefix(modelID, "gpt-"), strings.HasPrefix(modelID, "o1-"), strings.HasPrefix(modelID, "o3-"):
		return ProviderOpenAI, true
	case strings.HasPrefix(modelID, "claude-"):
		return ProviderAnthropic, true
	case strings.HasPrefix(modelID, "gemini-"):
		return ProviderGemini, true
	case strings.HasPrefix(modelID, "llama"), strings.HasPrefix(modelID, "mistral"), strings.HasPrefix(modelID, "phi"):
		return ProviderOllama, true
	}
	return "", false
}
