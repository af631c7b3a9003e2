// Compile-time interface satisfaction checks.
// Ensures every vendor adapter satisfies LLMProvider without running any
// HTTP calls.
package llm

import "testing"

// TestProviders_ImplementLLMProvider is a compile-time check.
// If an adapter does not satisfy LLMProvider, this file will not compile.
func TestProviders_ImplementLLMProvider(t *testing.T) {
	t.Parallel()

	var _ LLMProvider = &OllamaProvider{}
	var _ LLMProvider = &OpenAIProvider{}
	var _ LLMProvider = &AnthropicProvider{}
	var _ LLMProvider = &GeminiProvider{}
}
