package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Output contracts the fixed prompt can commit to.
const (
	ContractStructured = "structured"
	ContractFreeform   = "freeform"
)

// Completion providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAzure     = "azure"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

type LLMConfig struct {
	Provider   string        `mapstructure:"provider"`
	Model      string        `mapstructure:"model"` // overrides the provider's default model
	MaxTokens  int64         `mapstructure:"max_tokens"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Contract   string        `mapstructure:"contract"`
	PromptFile string        `mapstructure:"prompt_file"` // read once at startup
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	APIEndpoint    string `mapstructure:"endpoint"`
	Model          string `mapstructure:"model"`
	DeploymentName string `mapstructure:"deployment"`
	APIVersion     string `mapstructure:"api_version"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey      string `mapstructure:"api_key"`
	APIEndpoint string `mapstructure:"endpoint"`
	Model       string `mapstructure:"model"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings maps config keys to the plain environment variable names the
// deployment already uses.
var envBindings = map[string]string{
	"server.port":           "SERVER_PORT",
	"server.host":           "SERVER_HOST",
	"server.read_timeout":   "SERVER_READ_TIMEOUT",
	"server.write_timeout":  "SERVER_WRITE_TIMEOUT",
	"server.max_body_bytes": "SERVER_MAX_BODY_BYTES",
	"llm.provider":          "LLM_PROVIDER",
	"llm.model":             "LLM_MODEL",
	"llm.max_tokens":        "LLM_MAX_TOKENS",
	"llm.timeout":           "LLM_TIMEOUT",
	"llm.contract":          "OUTPUT_CONTRACT",
	"llm.prompt_file":       "PROMPT_FILE",
	"openai.api_key":        "OPENAI_API_KEY",
	"openai.endpoint":       "OPENAI_ENDPOINT",
	"openai.model":          "OPENAI_MODEL",
	"openai.deployment":     "OPENAI_DEPLOYMENT",
	"openai.api_version":    "OPENAI_API_VERSION",
	"gemini.api_key":        "GEMINI_API_KEY",
	"gemini.model":          "GEMINI_MODEL",
	"anthropic.api_key":     "ANTHROPIC_API_KEY",
	"anthropic.endpoint":    "ANTHROPIC_ENDPOINT",
	"anthropic.model":       "ANTHROPIC_MODEL",
	"log.level":             "LOG_LEVEL",
	"log.format":            "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.max_body_bytes", 10<<20)

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_tokens", 500)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.contract", ContractStructured)
	v.SetDefault("llm.prompt_file", "")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.endpoint", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.deployment", "gpt-4o")
	v.SetDefault("openai.api_version", "2024-06-01")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.endpoint", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads configuration from defaults, an optional config file named by
// RIZZIQ_CONFIG, a .env file in the working directory and the environment, in
// increasing order of precedence. Missing API keys are not an error here.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RIZZIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, "RIZZIQ_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path := os.Getenv("RIZZIQ_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		slog.Info("configuration file loaded", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("configuration loaded successfully",
		"provider", cfg.LLM.Provider,
		"contract", cfg.LLM.Contract,
	)
	return &cfg, nil
}

// Validate checks the settings that cannot be recovered from at request time.
func (c *Config) Validate() error {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAzure, ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown LLM provider %q", c.LLM.Provider)
	}

	c.LLM.Contract = strings.ToLower(strings.TrimSpace(c.LLM.Contract))
	switch c.LLM.Contract {
	case ContractStructured, ContractFreeform:
	default:
		return fmt.Errorf("unknown output contract %q", c.LLM.Contract)
	}

	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server max body bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

// LoadPrompt returns the contents of the configured prompt file, or fallback
// when none is configured.
func (c LLMConfig) LoadPrompt(fallback string) (string, error) {
	if c.PromptFile == "" {
		return fallback, nil
	}
	b, err := os.ReadFile(c.PromptFile)
	if err != nil {
		return "", fmt.Errorf("read prompt file: %w", err)
	}
	prompt := strings.TrimSpace(string(b))
	if prompt == "" {
		return "", fmt.Errorf("prompt file %s is empty", c.PromptFile)
	}
	return prompt, nil
}
