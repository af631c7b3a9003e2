// Wiring tests for NewRouter: health endpoint, end-to-end chat routing
// against fake provider backends, and key-gated provider registration.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matiasleandrokruk/chatrelay/internal/infra/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig returns a valid config with no cloud API keys set.
func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server = config.ServerConfig{Host: "127.0.0.1", Port: 8080, ReadTimeout: 15, WriteTimeout: 15, IdleTimeout: 60}
	cfg.Chat = config.ChatConfig{DefaultProvider: "ollama"}
	cfg.Providers = config.ProvidersConfig{
		OpenAI:    config.ProviderConfig{BaseURL: "https://api.openai.com", Model: "gpt-4o-mini", Timeout: 5},
		Ollama:    config.ProviderConfig{BaseURL: "http://localhost:11434", Model: "llama3.2:3b", Timeout: 5},
		Gemini:    config.ProviderConfig{BaseURL: "https://generativelanguage.googleapis.com", Model: "gemini-2.0-flash", Timeout: 5},
		Anthropic: config.ProviderConfig{BaseURL: "https://api.anthropic.com", Model: "claude-3-5-haiku-latest", Timeout: 5},
	}
	return cfg
}

func TestNewRouter_HealthEndpoint(t *testing.T) {
	router, err := NewRouter(testConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("expected body to contain 'ok', got %q", w.Body.String())
	}
}

func TestNewRouter_ChatEndToEnd(t *testing.T) {
	// Fake Ollama backend answering POST /api/chat.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"Hi from Ollama"},"done":true,"done_reason":"stop"}`))
	}))
	defer backend.Close()

	cfg := testConfig()
	cfg.Providers.Ollama.BaseURL = backend.URL

	router, err := NewRouter(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat?message=Hello", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Response  string `json:"response"`
		LLM       string `json:"llm"`
		Message   string `json:"message"`
		Timestamp int64  `json:"timestamp"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Response != "Hi from Ollama" {
		t.Errorf("expected backend text, got %q", resp.Response)
	}
	if resp.LLM != "OLLAMA" {
		t.Errorf("expected default provider echo OLLAMA, got %q", resp.LLM)
	}
	if resp.Message != "Hello" {
		t.Errorf("expected message echo, got %q", resp.Message)
	}
	if resp.Timestamp == 0 {
		t.Error("expected a non-zero timestamp")
	}
}

func TestNewRouter_PostChatEndToEnd(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"ok"},"done":true,"done_reason":"stop"}`))
	}))
	defer backend.Close()

	cfg := testConfig()
	cfg.Providers.Ollama.BaseURL = backend.URL

	router, err := NewRouter(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"Hola","llm":"ollama"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestNewRouter_OpenAIWiredOnlyWithKey(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"gpt says hi"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2}}`))
	}))
	defer backend.Close()

	t.Run("without key requests fail", func(t *testing.T) {
		router, err := NewRouter(testConfig(), discardLogger())
		if err != nil {
			t.Fatalf("NewRouter: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/chat?message=Hi&llm=openai", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unwired provider, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "BAD_REQUEST") {
			t.Errorf("expected BAD_REQUEST code, got %q", w.Body.String())
		}
	})

	t.Run("with key requests route", func(t *testing.T) {
		cfg := testConfig()
		cfg.Providers.OpenAI.APIKey = "sk-test"
		cfg.Providers.OpenAI.BaseURL = backend.URL

		router, err := NewRouter(cfg, discardLogger())
		if err != nil {
			t.Fatalf("NewRouter: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/chat?message=Hi&llm=openai", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"llm":"OPENAI"`) {
			t.Errorf("expected OPENAI echo, got %q", w.Body.String())
		}
	})
}

func TestNewRouter_RejectsUnwiredDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Chat.DefaultProvider = "openai" // no API key, so openai never enters the registry

	_, err := NewRouter(cfg, discardLogger())
	if err == nil {
		t.Fatal("expected error for default provider without API key, got nil")
	}
	if !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected 'not registered' in error, got %v", err)
	}
}

func TestNewRouter_RejectsUnknownDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Chat.DefaultProvider = "grok"

	_, err := NewRouter(cfg, discardLogger())
	if err == nil {
		t.Fatal("expected error for unknown default provider, got nil")
	}
}

func TestNewRouter_UpstreamDownMapsTo503(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer backend.Close()

	cfg := testConfig()
	cfg.Providers.Ollama.BaseURL = backend.URL

	router, err := NewRouter(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat?message=Hi", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "AI service is unavailable") {
		t.Errorf("expected the stable unavailable message, got %q", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "model exploded") {
		t.Error("upstream error text must not leak to the caller")
	}
}
