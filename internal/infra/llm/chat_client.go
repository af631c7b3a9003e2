package llm

import "context"

// ChatClient adapts an LLMProvider to the single-message send capability the
// routing layer consumes: one user message in, the assistant text out. Model
// choice and credentials stay inside the wrapped provider.
type ChatClient struct {
	provider LLMProvider
}

// NewChatClient wraps provider in a ChatClient.
func NewChatClient(provider LLMProvider) *ChatClient {
	return &ChatClient{provider: provider}
}

// Send performs a one-turn chat completion and returns the assistant text.
func (c *ChatClient) Send(ctx context.Context, message string) (string, error) {
	resp, err := c.provider.ChatCompletion(ctx, ChatRequest{
		Messages: []Message{{Role: "user", Content: message}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
