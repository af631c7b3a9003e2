// Package llm — Anthropic HTTP adapter.
// AnthropicProvider calls the Anthropic Messages API using stdlib net/http.
// Endpoints used:
//   - POST /v1/messages — non-streaming chat completion
//   - GET  /v1/models   — health check (lists available models)
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const anthropicVersion = "2023-06-01"

// defaultAnthropicMaxTokens is used when the request does not set a limit;
// the Messages API rejects requests without max_tokens.
const defaultAnthropicMaxTokens = 1024

// AnthropicProvider implements LLMProvider against the Anthropic Messages
// API. Auth is the x-api-key header plus a pinned anthropic-version.
type AnthropicProvider struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewAnthropicProvider creates an AnthropicProvider.
func NewAnthropicProvider(baseURL, model, apiKey string, timeout time.Duration) *AnthropicProvider {
	return &AnthropicProvider{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ─── internal Anthropic JSON types ───────────────────────────────────────────

type anthropicChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicChatRequest struct {
	Model       string                 `json:"model"`
	MaxTokens   int                    `json:"max_tokens"`
	System      string                 `json:"system,omitempty"`
	Messages    []anthropicChatMessage `json:"messages"`
	Temperature float32                `json:"temperature,omitempty"`
}

// anthropicChatResponse carries the assistant reply as content blocks; text
// blocks are concatenated into the response content.
type anthropicChatResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ─── LLMProvider implementation ─────────────────────────────────────────────

// ChatCompletion performs a non-streaming chat via POST /v1/messages.
// System messages move to the top-level system field; the Messages API only
// accepts user/assistant roles in the messages array.
func (p *AnthropicProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	var system string
	msgs := make([]anthropicChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = m.Content
			continue
		}
		msgs = append(msgs, anthropicChatMessage(m))
	}

	body, err := json.Marshal(anthropicChatRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    msgs,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, err
	}

	respBody, postErr := p.doPost(ctx, "/v1/messages", body)
	if postErr != nil {
		return nil, postErr
	}
	defer respBody.Close()

	var anthropicResp anthropicChatResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&anthropicResp); decodeErr != nil {
		return nil, fmt.Errorf("decode chat response: %w", decodeErr)
	}

	var text strings.Builder
	for _, block := range anthropicResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return &ChatResponse{
		Content:    text.String(),
		StopReason: anthropicResp.StopReason,
		Tokens:     anthropicResp.Usage.InputTokens + anthropicResp.Usage.OutputTokens,
	}, nil
}

// ModelInfo returns static metadata for this provider/model.
func (p *AnthropicProvider) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:        p.model,
		Provider:  "anthropic",
		Version:   anthropicVersion,
		MaxTokens: 200000,
	}
}

// HealthCheck calls GET /v1/models — returns nil if the API key is valid and
// the API is reachable.
func (p *AnthropicProvider) HealthCheck(ctx context.Context) error {
	url := p.baseURL + "/v1/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("anthropic healthcheck: build request: %w", err)
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic healthcheck: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anthropic healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// doPost sends an authenticated POST to baseURL+path and returns the response
// body. Non-2xx responses surface the API error message when one is present.
// Caller is responsible for closing the returned ReadCloser.
func (p *AnthropicProvider) doPost(ctx context.Context, path string, body []byte) (io.ReadCloser, error) {
	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic post %s: build request: %w", path, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic post %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("anthropic post %s: status %d%s", path, resp.StatusCode, anthropicErrorDetail(resp.Body))
	}
	return resp.Body, nil
}

// anthropicErrorDetail extracts the Anthropic error message from an error
// response body, returning it formatted for appending to an error string.
func anthropicErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var apiErr anthropicErrorResponse
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		return ": " + apiErr.Error.Message
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return ": " + msg
	}
	return ""
}
