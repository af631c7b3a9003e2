// Package api wires the HTTP surface: chi router setup, middleware, and
// the health and chat endpoints.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/matiasleandrokruk/chatrelay/internal/api/handlers"
	"github.com/matiasleandrokruk/chatrelay/internal/domain/chat"
	"github.com/matiasleandrokruk/chatrelay/internal/infra/config"
	"github.com/matiasleandrokruk/chatrelay/internal/infra/llm"
)

// NewRouter creates and configures the chi router with all routes.
// Provider clients are built from cfg; a cloud vendor missing its API key
// is left unwired, so requests naming it fail up front instead of making
// a doomed upstream call. It returns an error when the configured default
// provider did not end up in the registry.
func NewRouter(cfg *config.Config, log *slog.Logger) (*chi.Mux, error) {
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check, unauthenticated, used by load balancers and probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	registry := buildRegistry(cfg, log)

	defaultProvider, err := chat.ParseProvider(cfg.Chat.DefaultProvider)
	if err != nil {
		return nil, fmt.Errorf("configured default provider: %w", err)
	}
	chatRouter, err := chat.NewRouter(registry, defaultProvider, log)
	if err != nil {
		return nil, err
	}

	chatHandler := handlers.NewChatHandler(chatRouter)
	r.Route("/api", func(r chi.Router) {
		r.Get("/chat", chatHandler.Chat)  // GET /api/chat?message=...&llm=...
		r.Post("/chat", chatHandler.Chat) // POST /api/chat
	})

	return r, nil
}

// buildRegistry wires one client per usable provider. Ollama needs no API
// key and is always wired; the cloud vendors are skipped when theirs is
// absent.
func buildRegistry(cfg *config.Config, log *slog.Logger) *chat.Registry {
	clients := map[chat.ProviderID]chat.Client{
		chat.ProviderOllama: llm.NewChatClient(llm.NewOllamaProvider(
			cfg.Providers.Ollama.BaseURL,
			cfg.Providers.Ollama.Model,
			providerTimeout(cfg.Providers.Ollama),
		)),
	}

	if key := cfg.Providers.OpenAI.APIKey; key != "" {
		clients[chat.ProviderOpenAI] = llm.NewChatClient(llm.NewOpenAIProvider(
			cfg.Providers.OpenAI.BaseURL,
			cfg.Providers.OpenAI.Model,
			key,
			providerTimeout(cfg.Providers.OpenAI),
		))
	} else {
		log.Info("provider not wired, API key missing", "provider", chat.ProviderOpenAI)
	}

	if key := cfg.Providers.Gemini.APIKey; key != "" {
		clients[chat.ProviderGemini] = llm.NewChatClient(llm.NewGeminiProvider(
			cfg.Providers.Gemini.BaseURL,
			cfg.Providers.Gemini.Model,
			key,
			providerTimeout(cfg.Providers.Gemini),
		))
	} else {
		log.Info("provider not wired, API key missing", "provider", chat.ProviderGemini)
	}

	if key := cfg.Providers.Anthropic.APIKey; key != "" {
		clients[chat.ProviderAnthropic] = llm.NewChatClient(llm.NewAnthropicProvider(
			cfg.Providers.Anthropic.BaseURL,
			cfg.Providers.Anthropic.Model,
			key,
			providerTimeout(cfg.Providers.Anthropic),
		))
	} else {
		log.Info("provider not wired, API key missing", "provider", chat.ProviderAnthropic)
	}

	return chat.NewRegistry(clients)
}

func providerTimeout(p config.ProviderConfig) time.Duration {
	return time.Duration(p.Timeout) * time.Second
}
