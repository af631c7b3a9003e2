package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

// DefaultConfig returns the built-in defaults. Every key has a safe value so
// the binary runs locally against Ollama without any setup; cloud providers
// stay unwired until their API keys are supplied.
func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"host":          "0.0.0.0",
			"port":          8080,
			"read_timeout":  15,
			"write_timeout": 15,
			"idle_timeout":  60,
		},
		"chat": map[string]interface{}{
			"default_provider": "ollama",
		},
		"providers": map[string]interface{}{
			"openai": map[string]interface{}{
				"api_key":  "",
				"base_url": "https://api.openai.com",
				"model":    "gpt-4o-mini",
				"timeout":  60,
			},
			"ollama": map[string]interface{}{
				"base_url": "http://localhost:11434",
				"model":    "llama3.2:3b",
				"timeout":  120,
			},
			"gemini": map[string]interface{}{
				"api_key":  "",
				"base_url": "https://generativelanguage.googleapis.com",
				"model":    "gemini-2.0-flash",
				"timeout":  60,
			},
			"anthropic": map[string]interface{}{
				"api_key":  "",
				"base_url": "https://api.anthropic.com",
				"model":    "claude-3-5-haiku-latest",
				"timeout":  60,
			},
		},
	}
}

// NewDefaultProvider wraps DefaultConfig in a koanf confmap provider.
func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
