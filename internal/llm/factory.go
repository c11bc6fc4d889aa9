package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/posterior/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "ollama":
		return NewOllamaProvider(config), nil

	case "":
		// No provider configured - LLM disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.Config to llm.Config, keeping defaults for unset limits
func ConfigFromModel(cfg *model.Config) Config {
	c := DefaultConfig()
	c.Provider = cfg.LLM.Provider
	c.Model = cfg.LLM.Model
	c.APIKey = cfg.LLM.APIKey
	c.BaseURL = cfg.LLM.BaseURL
	c.HTTPProxy = cfg.HTTP.HTTPProxy
	c.HTTPSProxy = cfg.HTTP.HTTPSProxy
	c.NoProxy = cfg.HTTP.NoProxy
	if cfg.LLM.Timeout > 0 {
		c.Timeout = cfg.LLM.Timeout
	}
	if cfg.LLM.MaxTokens > 0 {
		c.MaxTokens = cfg.LLM.MaxTokens
	}
	return c
}
