package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, ContractStructured, cfg.LLM.Contract)
	assert.Equal(t, int64(500), cfg.LLM.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Empty(t, cfg.OpenAI.APIKey, "a missing key must not fail startup")
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OUTPUT_CONTRACT", "Freeform")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("RIZZIQ_LLM_MAX_TOKENS", "800")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, ContractFreeform, cfg.LLM.Contract)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, int64(800), cfg.LLM.MaxTokens)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rizziq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: anthropic\n  max_tokens: 300\nanthropic:\n  model: claude-test\n"), 0o600))
	t.Setenv("RIZZIQ_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, int64(300), cfg.LLM.MaxTokens)
	assert.Equal(t, "claude-test", cfg.Anthropic.Model)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{MaxBodyBytes: 1},
			LLM:    LLMConfig{Provider: ProviderOpenAI, Contract: ContractStructured, MaxTokens: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "mystery" }},
		{"unknown contract", func(c *Config) { c.LLM.Contract = "both" }},
		{"zero max tokens", func(c *Config) { c.LLM.MaxTokens = 0 }},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadPrompt(t *testing.T) {
	got, err := LLMConfig{}.LoadPrompt("built-in")
	require.NoError(t, err)
	assert.Equal(t, "built-in", got)

	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("  custom persona\n"), 0o600))
	got, err = LLMConfig{PromptFile: path}.LoadPrompt("built-in")
	require.NoError(t, err)
	assert.Equal(t, "custom persona", got)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LLMConfig{PromptFile: empty}.LoadPrompt("built-in")
	assert.Error(t, err)

	_, err = LLMConfig{PromptFile: filepath.Join(t.TempDir(), "missing.txt")}.LoadPrompt("built-in")
	assert.Error(t, err)
}
