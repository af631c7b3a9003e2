// Package chat routes chat messages to interchangeable LLM providers.
// Router.Route is the single entry point: validate the message, resolve the
// provider hint, look the provider's client up in the registry, invoke it,
// and normalize the outcome into an Exchange.
package chat

import (
	"fmt"
	"strings"
)

// ProviderID identifies an LLM provider from the closed supported set.
// The canonical form is the uppercase name, which is what responses echo.
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "OPENAI"
	ProviderOllama    ProviderID = "OLLAMA"
	ProviderGemini    ProviderID = "GEMINI"
	ProviderAnthropic ProviderID = "ANTHROPIC"
)

// Providers returns the supported provider IDs in declaration order.
func Providers() []ProviderID {
	return []ProviderID{ProviderOpenAI, ProviderOllama, ProviderGemini, ProviderAnthropic}
}

// ParseProvider maps a raw provider name to its ProviderID. Matching is
// case-insensitive ("OpenAI", "openai" and "OPENAI" resolve to the same
// provider) and surrounding whitespace is ignored. Names outside the
// supported set return ErrUnsupportedProvider naming the offending value.
func ParseProvider(name string) (ProviderID, error) {
	trimmed := strings.TrimSpace(name)
	id := ProviderID(strings.ToUpper(trimmed))
	switch id {
	case ProviderOpenAI, ProviderOllama, ProviderGemini, ProviderAnthropic:
		return id, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, trimmed)
}

// String returns the canonical uppercase name.
func (p ProviderID) String() string { return string(p) }
