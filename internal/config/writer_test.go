package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetValueCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".perspecto.yaml")

	require.NoError(t, SetValue(path, "llm.provider", "openai"))
	require.NoError(t, SetValue(path, "llm.temperature", "0.3"))
	require.NoError(t, SetValue(path, "telemetry.enabled", "true"))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "openai", v.GetString("llm.provider"))
	assert.InDelta(t, 0.3, v.GetFloat64("llm.temperature"), 0.001)
	assert.True(t, v.GetBool("telemetry.enabled"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSetValuePreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := `# Perspecto settings
llm:
  provider: gemini # default
  model: gemini-2.5-flash
log:
  level: info
`
	require.NoError(t, os.WriteFile(path, []byte(original), 0o600))

	require.NoError(t, SetValue(path, "llm.provider", "anthropic"))
	require.NoError(t, SetValue(path, "llm.apiKeys.anthropic", "sk-ant:with#chars"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# Perspecto settings")
	assert.Contains(t, text, "provider: anthropic # default")
	assert.Contains(t, text, "model: gemini-2.5-flash")
	assert.Contains(t, text, "level: info")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "sk-ant:with#chars", v.GetString("llm.apiKeys.anthropic"))
}

func TestSetValueUnknownKey(t *testing.T) {
	err := SetValue(filepath.Join(t.TempDir(), "c.yaml"), "llm.bogus", "x")
	assert.ErrorContains(t, err, "unknown config key")
}

func TestIsSecretKey(t *testing.T) {
	assert.True(t, IsSecretKey("llm.apiKeys.gemini"))
	assert.True(t, IsSecretKey("auth.firebase.apiKey"))
	assert.False(t, IsSecretKey("llm.model"))
}
