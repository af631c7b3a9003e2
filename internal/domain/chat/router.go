package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Exchange is the outcome of one routed request. Provider carries the ID
// that actually answered, so callers relying on the default learn which
// provider was used. Exchanges live for the duration of the request only;
// nothing is kept between calls.
type Exchange struct {
	Message  string
	Response string
	Provider ProviderID
	At       time.Time
}

// Router resolves which provider should answer each request and invokes
// its client. It holds no per-request state.
type Router struct {
	registry        *Registry
	defaultProvider ProviderID
	log             *slog.Logger
}

// NewRouter creates a Router over the given registry. The default provider
// must be registered: a default pointing at a missing provider is a
// deployment misconfiguration and fails here, at startup, rather than on
// the first hint-less request.
func NewRouter(registry *Registry, defaultProvider ProviderID, log *slog.Logger) (*Router, error) {
	if log == nil {
		log = slog.Default()
	}
	if !registry.Has(defaultProvider) {
		return nil, fmt.Errorf("chat router: default provider %q not registered (available: %v)", defaultProvider, registry.IDs())
	}
	return &Router{registry: registry, defaultProvider: defaultProvider, log: log}, nil
}

// DefaultProvider returns the provider used when a request carries no hint.
func (r *Router) DefaultProvider() ProviderID { return r.defaultProvider }

// Route sends message to the provider named by hint and returns the
// normalized exchange. A blank hint selects the default provider. Each call
// is a single pass (validate, resolve, look up, invoke): no retries, no
// fallback to another provider.
func (r *Router) Route(ctx context.Context, message, hint string) (*Exchange, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	id, err := r.resolve(hint)
	if err != nil {
		r.log.Info("rejected unsupported provider", "hint", hint)
		return nil, err
	}

	client, err := r.registry.Get(id)
	if err != nil {
		r.log.Info("provider not wired in this deployment", "provider", id, "available", r.registry.IDs())
		return nil, err
	}

	r.log.Info("routing chat request", "provider", id)
	response, sendErr := client.Send(ctx, message)
	if sendErr != nil {
		r.log.Error("provider call failed", "provider", id, "error", sendErr)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, sendErr)
	}

	return &Exchange{
		Message:  message,
		Response: response,
		Provider: id,
		At:       time.Now().UTC(),
	}, nil
}

// resolve maps the raw hint to a provider ID. Blank means "use the
// default"; anything else must parse as a supported provider. The two
// paths never mix: an unknown hint is rejected, not defaulted.
func (r *Router) resolve(hint string) (ProviderID, error) {
	if strings.TrimSpace(hint) == "" {
		r.log.Info("no provider specified, using default", "provider", r.defaultProvider)
		return r.defaultProvider, nil
	}
	return ParseProvider(hint)
}
