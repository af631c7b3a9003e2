package server

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/matiasleandrokruk/chatrelay/internal/infra/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAppConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server = config.ServerConfig{Host: "127.0.0.1", Port: 18080, ReadTimeout: 1, WriteTimeout: 2, IdleTimeout: 3}
	cfg.Chat = config.ChatConfig{DefaultProvider: "ollama"}
	cfg.Providers = config.ProvidersConfig{
		OpenAI:    config.ProviderConfig{BaseURL: "https://api.openai.com", Model: "gpt-4o-mini", Timeout: 5},
		Ollama:    config.ProviderConfig{BaseURL: "http://localhost:11434", Model: "llama3.2:3b", Timeout: 5},
		Gemini:    config.ProviderConfig{BaseURL: "https://generativelanguage.googleapis.com", Model: "gemini-2.0-flash", Timeout: 5},
		Anthropic: config.ProviderConfig{BaseURL: "https://api.anthropic.com", Model: "claude-3-5-haiku-latest", Timeout: 5},
	}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Host != "0.0.0.0" {
		t.Fatalf("Host = %q; want %q", cfg.Host, "0.0.0.0")
	}
	if cfg.Port != 8080 {
		t.Fatalf("Port = %d; want %d", cfg.Port, 8080)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("ReadTimeout = %v; want %v", cfg.ReadTimeout, 15*time.Second)
	}
	if cfg.WriteTimeout != 15*time.Second {
		t.Fatalf("WriteTimeout = %v; want %v", cfg.WriteTimeout, 15*time.Second)
	}
	if cfg.IdleTimeout != 60*time.Second {
		t.Fatalf("IdleTimeout = %v; want %v", cfg.IdleTimeout, 60*time.Second)
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.ServerConfig{Host: "127.0.0.1", Port: 9999, ReadTimeout: 1, WriteTimeout: 2, IdleTimeout: 3})

	if cfg.Host != "127.0.0.1" || cfg.Port != 9999 {
		t.Fatalf("address = %s:%d; want 127.0.0.1:9999", cfg.Host, cfg.Port)
	}
	if cfg.ReadTimeout != time.Second {
		t.Fatalf("ReadTimeout = %v; want %v", cfg.ReadTimeout, time.Second)
	}
	if cfg.WriteTimeout != 2*time.Second {
		t.Fatalf("WriteTimeout = %v; want %v", cfg.WriteTimeout, 2*time.Second)
	}
	if cfg.IdleTimeout != 3*time.Second {
		t.Fatalf("IdleTimeout = %v; want %v", cfg.IdleTimeout, 3*time.Second)
	}
}

func TestNewServer_ConfiguresAddressAndHandler(t *testing.T) {
	s, err := NewServer(testAppConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewServer error = %v", err)
	}

	if s.http == nil {
		t.Fatal("server.http should not be nil")
	}
	if s.http.Addr != "127.0.0.1:18080" {
		t.Fatalf("Addr = %q; want %q", s.http.Addr, "127.0.0.1:18080")
	}
	if s.http.Handler == nil {
		t.Fatal("Handler should not be nil")
	}
}

func TestNewServer_RejectsUnusableDefaultProvider(t *testing.T) {
	cfg := testAppConfig()
	cfg.Chat.DefaultProvider = "anthropic" // no API key configured

	if _, err := NewServer(cfg, discardLogger()); err == nil {
		t.Fatal("expected error for keyless default provider, got nil")
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := testAppConfig()
	cfg.Server.Port = 0 // ephemeral port, avoids collisions between test runs

	s, err := NewServer(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewServer error = %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(context.Background()) }()

	time.Sleep(50 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown error = %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start returned error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
