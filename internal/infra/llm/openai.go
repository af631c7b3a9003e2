// Package llm — OpenAI HTTP adapter.
// OpenAIProvider calls the OpenAI REST API using stdlib net/http.
// Endpoints used:
//   - POST /v1/chat/completions — non-streaming chat completion
//   - GET  /v1/models           — health check (lists available models)
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

// OpenAIProvider implements LLMProvider against the OpenAI Chat Completions
// API. Auth is a Bearer token on every request.
type OpenAIProvider struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewOpenAIProvider creates an OpenAIProvider.
func NewOpenAIProvider(baseURL, model, apiKey string, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ─── internal OpenAI JSON types ──────────────────────────────────────────────

type openaiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openaiChatMessage `json:"messages"`
	Temperature float32             `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message      openaiChatMessage `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type openaiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ─── LLMProvider implementation ─────────────────────────────────────────────

// ChatCompletion performs a non-streaming chat via POST /v1/chat/completions.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	msgs := make([]openaiChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openaiChatMessage(m)
	}

	body, err := json.Marshal(openaiChatRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	respBody, postErr := p.doPost(ctx, "/v1/chat/completions", body)
	if postErr != nil {
		return nil, postErr
	}
	defer respBody.Close()

	var openaiResp openaiChatResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&openaiResp); decodeErr != nil {
		return nil, fmt.Errorf("decode chat response: %w", decodeErr)
	}
	if len(openaiResp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response contained no choices")
	}
	return &ChatResponse{
		Content:    openaiResp.Choices[0].Message.Content,
		StopReason: openaiResp.Choices[0].FinishReason,
		Tokens:     openaiResp.Usage.PromptTokens + openaiResp.Usage.CompletionTokens,
	}, nil
}

// ModelInfo returns static metadata for this provider/model.
func (p *OpenAIProvider) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:        p.model,
		Provider:  "openai",
		Version:   "v1",
		MaxTokens: 128000,
	}
}

// HealthCheck calls GET /v1/models — returns nil if the API key is valid and
// the API is reachable.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	url := p.baseURL + "/v1/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("openai healthcheck: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai healthcheck: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// doPost sends an authenticated POST to baseURL+path and returns the response
// body. Non-2xx responses surface the API error message when one is present.
// Caller is responsible for closing the returned ReadCloser.
func (p *OpenAIProvider) doPost(ctx context.Context, path string, body []byte) (io.ReadCloser, error) {
	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai post %s: build request: %w", path, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai post %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("openai post %s: status %d%s", path, resp.StatusCode, apiErrorDetail(resp.Body))
	}
	return resp.Body, nil
}

// apiErrorDetail extracts the OpenAI error message from an error response
// body, returning it formatted for appending to an error string.
func apiErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var apiErr openaiErrorResponse
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		return ": " + apiErr.Error.Message
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return ": " + msg
	}
	return ""
}
