// Package llm defines the model-agnostic LLM provider abstraction.
// All types here are shared between the provider interface and the vendor
// adapters (Ollama, OpenAI, Anthropic, Gemini).
package llm

// Message represents a single turn in a conversation (role + content).
type Message struct {
	Role    string // "system" | "user" | "assistant"
	Content string
}

// ChatRequest is the input for a non-streaming chat completion.
type ChatRequest struct {
	// Model overrides the provider default when non-empty.
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// ChatResponse is the output from a non-streaming chat completion.
type ChatResponse struct {
	Content    string // The assistant message text.
	StopReason string // "stop" | "length" | "error"
	Tokens     int    // Total tokens consumed (prompt + completion).
}

// ModelMeta describes the model / provider identity.
type ModelMeta struct {
	ID        string // e.g. "llama3.2:3b", "gpt-4o-mini"
	Provider  string // e.g. "ollama", "openai"
	Version   string // e.g. "v1"
	MaxTokens int    // Maximum context window size.
}
