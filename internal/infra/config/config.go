// Package config loads application configuration from layered sources:
// built-in defaults, an optional YAML file, and environment variables.
// All fields have safe defaults so the binary runs locally against a
// stock Ollama install without any setup.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the variables this service owns. Vendor API keys
// (OPENAI_API_KEY and friends) are read unprefixed, matching what the
// provider CLIs and SDKs already expect in the environment.
const envPrefix = "CHATRELAY_"

// ServerConfig holds the HTTP listener settings. Timeouts are seconds.
type ServerConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	ReadTimeout  int    `koanf:"read_timeout"`
	WriteTimeout int    `koanf:"write_timeout"`
	IdleTimeout  int    `koanf:"idle_timeout"`
}

// ChatConfig selects routing behaviour for the chat endpoint.
type ChatConfig struct {
	// DefaultProvider answers requests that carry no llm hint.
	// It must name one of the supported providers and is matched
	// case-insensitively.
	DefaultProvider string `koanf:"default_provider"`
}

// ProviderConfig holds the connection settings for one upstream LLM.
// Timeout is seconds per request; zero disables the client timeout.
type ProviderConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	Timeout int    `koanf:"timeout"`
}

// ProvidersConfig groups the per-vendor settings. Ollama needs no API
// key; the cloud vendors are only wired when theirs is present.
type ProvidersConfig struct {
	OpenAI    ProviderConfig `koanf:"openai"`
	Ollama    ProviderConfig `koanf:"ollama"`
	Gemini    ProviderConfig `koanf:"gemini"`
	Anthropic ProviderConfig `koanf:"anthropic"`
}

// Config is the root of the configuration tree.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Chat      ChatConfig      `koanf:"chat"`
	Providers ProvidersConfig `koanf:"providers"`
}

// Load builds the configuration by layering, lowest precedence first:
// defaults, the YAML file at configPath (skipped when absent or the
// path is empty), CHATRELAY_ environment variables, and finally the
// vendor API key variables.
//
// Environment keys map double underscores to nesting, so
// CHATRELAY_SERVER__PORT=9090 sets server.port and
// CHATRELAY_CHAT__DEFAULT_PROVIDER=openai sets chat.default_provider.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	loadVendorKeys(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envTransform maps CHATRELAY_SECTION__SUB_KEY to section.sub_key.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// loadVendorKeys overlays the unprefixed API key variables the LLM
// vendors document, so existing shell setups keep working.
func loadVendorKeys(k *koanf.Koanf) {
	vendorKeys := map[string]string{
		"OPENAI_API_KEY":    "providers.openai.api_key",
		"GEMINI_API_KEY":    "providers.gemini.api_key",
		"ANTHROPIC_API_KEY": "providers.anthropic.api_key",
	}
	for envKey, path := range vendorKeys {
		if v := os.Getenv(envKey); v != "" {
			_ = k.Set(path, v) //nolint:errcheck
		}
	}
}

// supportedProviders lists the accepted default_provider values.
var supportedProviders = []string{"openai", "ollama", "gemini", "anthropic"}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	dp := strings.ToLower(strings.TrimSpace(c.Chat.DefaultProvider))
	found := false
	for _, p := range supportedProviders {
		if dp == p {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown default provider %q (supported: %s)",
			c.Chat.DefaultProvider, strings.Join(supportedProviders, ", "))
	}

	for name, p := range map[string]ProviderConfig{
		"openai":    c.Providers.OpenAI,
		"ollama":    c.Providers.Ollama,
		"gemini":    c.Providers.Gemini,
		"anthropic": c.Providers.Anthropic,
	} {
		if p.Timeout < 0 {
			return fmt.Errorf("provider %s timeout must not be negative", name)
		}
		if p.BaseURL == "" {
			return fmt.Errorf("provider %s base_url must not be empty", name)
		}
	}
	return nil
}
