package ai

import "time"

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "claude" or "ollama"

	// Claude config
	AnthropicAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3.2-vision"

	Timeout time.Duration
}

// NewAssistService creates an AssistService based on the config.
// This is the factory function - switch AI provider by changing config.Provider
func NewAssistService(cfg Config) AssistService {
	switch cfg.Provider {
	case ProviderClaude:
		return NewClaudeService(cfg.AnthropicAPIKey, cfg.Timeout)

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout)

	default:
		// Default to Claude if an API key is available, otherwise Ollama
		if cfg.AnthropicAPIKey != "" {
			return NewClaudeService(cfg.AnthropicAPIKey, cfg.Timeout)
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout)
	}
}
