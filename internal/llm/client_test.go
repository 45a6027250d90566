package llm

import (
	"context"
	"testing"
)

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     Provider
		wantErr  bool
	}{
		{name: "valid gemini", provider: "gemini", want: ProviderGemini},
		{name: "valid openai", provider: "openai", want: ProviderOpenAI},
		{name: "valid ollama", provider: "ollama", want: ProviderOllama},
		{name: "valid anthropic", provider: "anthropic", want: ProviderAnthropic},
		{name: "valid mock", provider: "mock", want: ProviderMock},
		{name: "invalid provider", provider: "invalid", wantErr: true},
		{name: "empty provider", provider: "", wantErr: true},
		{name: "case sensitive - GEMINI fails", provider: "GEMINI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProvider(tt.provider)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProvider(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ValidateProvider(%q) = %v, want %v", tt.provider, got, tt.want)
			}
		})
	}
}

func TestDefaultModelForProvider(t *testing.T) {
	tests := []struct {
		provider Provider
		want     string
	}{
		{ProviderGemini, "gemini-2.5-flash"},
		{ProviderOpenAI, "gpt-4o-mini"},
		{ProviderAnthropic, "claude-3-5-sonnet-latest"},
		{ProviderOllama, "llama3.2"},
		{"unknown", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			if got := DefaultModelForProvider(tt.provider); got != tt.want {
				t.Errorf("DefaultModelForProvider(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}

func TestInferProvider(t *testing.T) {
	tests := []struct {
		model string
		want  Provider
		ok    bool
	}{
		{"gemini-2.5-flash", ProviderGemini, true},
		{"gpt-4o-mini-2024-07-18", ProviderOpenAI, true},
		{"claude-3-opus-20240229", ProviderAnthropic, true},
		{"llama3.1:70b", ProviderOllama, true},
		{"something-else", "", false},
	}
	for _, tt := range tests {
		got, ok := InferProvider(tt.model)
		if ok != tt.ok || got != tt.want {
			t.Errorf("InferProvider(%q) = (%q, %v), want (%q, %v)", tt.model, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGetModelsForProvider_DefaultFirst(t *testing.T) {
	ids := GetModelsForProvider(ProviderGemini)
	if len(ids) == 0 || ids[0] != "gemini-2.5-flash" {
		t.Fatalf("GetModelsForProvider(gemini) = %v, want default first", ids)
	}
}

func TestConfigEffectiveValues(t *testing.T) {
	cfg := Config{Provider: ProviderGemini}
	if got := cfg.EffectiveModel(); got != "gemini-2.5-flash" {
		t.Errorf("EffectiveModel() = %q", got)
	}
	if got := cfg.EffectiveTemperature(); got != DefaultTemperature {
		t.Errorf("EffectiveTemperature() = %v", got)
	}
	cfg.Model, cfg.Temperature = "gemini-2.5-pro", 0.2
	if cfg.EffectiveModel() != "gemini-2.5-pro" || cfg.EffectiveTemperature() != 0.2 {
		t.Errorf("explicit values not honoured: %+v", cfg)
	}
}

func TestNewChatModel_Errors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"openai without key", Config{Provider: ProviderOpenAI}},
		{"anthropic without key", Config{Provider: ProviderAnthropic}},
		{"gemini without key", Config{Provider: ProviderGemini}},
		{"mock has no chat model", Config{Provider: ProviderMock}},
		{"unknown provider", Config{Provider: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChatModel(ctx, tt.cfg); err == nil {
				t.Errorf("NewChatModel(%+v) expected error", tt.cfg)
			}
		})
	}
}

func TestRequiresAPIKey(t *testing.T) {
	if RequiresAPIKey(ProviderOllama) || RequiresAPIKey(ProviderMock) {
		t.Error("local providers must not require a key")
	}
	if !RequiresAPIKey(ProviderGemini) {
		t.Error("gemini requires a key")
	}
}
