package llm

import "os"

// DefaultOllamaBaseURL is Ollama's OpenAI-compatible endpoint
const DefaultOllamaBaseURL = "http://localhost:11434/v1"

// NewOllamaProvider talks to a local Ollama server through its OpenAI-compatible API.
// OLLAMA_BASE_URL overrides the default endpoint when no base URL is configured.
func NewOllamaProvider(config Config) *OpenAIProvider {
	if config.BaseURL == "" {
		config.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultOllamaBaseURL
	}
	if config.Model == "" || config.Model == "gpt-4o-mini" {
		config.Model = "llama3.2"
	}

	// Ollama ignores the key but the client always sends one
	return newChatProvider("ollama", "ollama", config)
}
