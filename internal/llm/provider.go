package llm

import (
	"fmt"

	"github.com/sozercan/rizziq/internal/config"
)

// New builds the provider selected by cfg.LLM.Provider. Credentials are not
// checked here; a missing key surfaces per request via CheckCredentials.
func New(cfg *config.Config) (Provider, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI, config.ProviderAzure:
		return NewOpenAI(&cfg.OpenAI, cfg.LLM.Provider), nil
	case config.ProviderGemini:
		return NewGemini(&cfg.Gemini), nil
	case config.ProviderAnthropic:
		return NewAnthropic(&cfg.Anthropic), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}
