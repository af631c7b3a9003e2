// Package llm — Google Gemini HTTP adapter.
// GeminiProvider calls the Gemini REST API using stdlib net/http.
// Endpoints used:
//   - POST /v1beta/models/{model}:generateContent — non-streaming completion
//   - GET  /v1beta/models                         — health check
//
// Gemini differs from the other vendors in a few ways: the model name lives
// in the URL path, auth is the x-goog-api-key header, messages are
// "contents" with "parts" arrays, and the "assistant" role is called
// "model".
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

// GeminiProvider implements LLMProvider against the Gemini generateContent
// API.
type GeminiProvider struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewGeminiProvider creates a GeminiProvider.
func NewGeminiProvider(baseURL, model, apiKey string, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ─── internal Gemini JSON types ──────────────────────────────────────────────

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" | "model"
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiChatRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiChatResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ─── LLMProvider implementation ─────────────────────────────────────────────

// ChatCompletion performs a non-streaming completion via generateContent.
// System messages move to the top-level systemInstruction field; assistant
// turns map to the "model" role.
func (p *GeminiProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	var sysInst *geminiContent
	contents := make([]geminiContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			if sysInst == nil {
				sysInst = &geminiContent{}
			}
			sysInst.Parts = append(sysInst.Parts, geminiPart{Text: m.Content})
		case "assistant":
			contents = append(contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}

	var genCfg *geminiGenerationConfig
	if req.Temperature != 0 || req.MaxTokens != 0 {
		genCfg = &geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	body, err := json.Marshal(geminiChatRequest{
		Contents:          contents,
		SystemInstruction: sysInst,
		GenerationConfig:  genCfg,
	})
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", model)
	respBody, postErr := p.doPost(ctx, path, body)
	if postErr != nil {
		return nil, postErr
	}
	defer respBody.Close()

	var geminiResp geminiChatResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&geminiResp); decodeErr != nil {
		return nil, fmt.Errorf("decode chat response: %w", decodeErr)
	}
	if len(geminiResp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: response contained no candidates")
	}

	candidate := geminiResp.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	return &ChatResponse{
		Content:    text.String(),
		StopReason: mapGeminiFinishReason(candidate.FinishReason),
		Tokens:     geminiResp.UsageMetadata.TotalTokenCount,
	}, nil
}

// mapGeminiFinishReason translates Gemini finish reasons to the shared
// vocabulary.
func mapGeminiFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return "stop"
	case "MAX_TOKENS":
		return "length"
	default:
		return strings.ToLower(reason)
	}
}

// ModelInfo returns static metadata for this provider/model.
func (p *GeminiProvider) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:        p.model,
		Provider:  "gemini",
		Version:   "v1beta",
		MaxTokens: 1048576,
	}
}

// HealthCheck calls GET /v1beta/models — returns nil if the API key is valid
// and the API is reachable.
func (p *GeminiProvider) HealthCheck(ctx context.Context) error {
	url := p.baseURL + "/v1beta/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("gemini healthcheck: build request: %w", err)
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gemini healthcheck: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// doPost sends an authenticated POST to baseURL+path and returns the response
// body. Non-2xx responses surface the API error message when one is present.
// Caller is responsible for closing the returned ReadCloser.
func (p *GeminiProvider) doPost(ctx context.Context, path string, body []byte) (io.ReadCloser, error) {
	url := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini post %s: build request: %w", path, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini post %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("gemini post %s: status %d%s", path, resp.StatusCode, geminiErrorDetail(resp.Body))
	}
	return resp.Body, nil
}

// geminiErrorDetail extracts the Gemini error message from an error response
// body, returning it formatted for appending to an error string.
func geminiErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var apiErr geminiErrorResponse
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		return ": " + apiErr.Error.Message
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return ": " + msg
	}
	return ""
}
